package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-distribucion/internal/application/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/application/report"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
	"github.com/jhoicas/inventario-distribucion/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC   *usecase.CategoryUseCase
	ProductUC    *usecase.ProductUseCase
	VendorUC     *usecase.VendorUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	StockEntryUC *inventory.StockEntryUseCase
	TransferUC   *inventory.TransferUseCase
	ReportUC     *report.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; la lectura queda
// abierta a cualquier rol y la escritura se restringe con RequireRole.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	admin := RequireRole(jwt.RoleAdmin)
	operador := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.ProductUC)
	categories.Get("/tree", categoryHandler.Tree)
	categories.Get("/rows", categoryHandler.Rows)
	categories.Get("/verify", admin, categoryHandler.Verify)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/path", categoryHandler.Path)
	categories.Get("/:id/leaves", categoryHandler.Leaves)
	categories.Get("/:id/products", categoryHandler.Products)
	categories.Put("/:id", admin, categoryHandler.Rename)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/stale-bindings", productHandler.StaleBindings)
	products.Post("/", admin, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/category-path", productHandler.CategoryPath)
	products.Put("/:id", admin, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	// Vendors
	vendors := api.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Get("/eligible", vendorHandler.Eligible)
	vendors.Post("/", admin, vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Get("/:id", vendorHandler.GetByID)
	vendors.Get("/:id/products", vendorHandler.Products)
	vendors.Put("/:id", admin, vendorHandler.Update)
	vendors.Delete("/:id", admin, vendorHandler.Delete)
	vendors.Post("/:id/selection", admin, vendorHandler.AddSelection)
	vendors.Delete("/:id/selection/:itemId", admin, vendorHandler.RemoveSelection)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", admin, warehouseHandler.Update)
	warehouses.Delete("/:id", admin, warehouseHandler.Delete)

	// Stock entries y disponibilidad
	stockHandler := NewStockEntryHandler(deps.StockEntryUC)
	entries := api.Group("/stock-entries")
	entries.Post("/", operador, stockHandler.Create)
	entries.Get("/", stockHandler.List)
	entries.Get("/:id", stockHandler.GetByID)

	stock := api.Group("/stock")
	stock.Get("/availability", stockHandler.Availability)
	stock.Get("/items", stockHandler.ResidentItems)

	// Borradores de entrada (del usuario del token)
	drafts := api.Group("/stock-drafts", operador)
	drafts.Post("/", stockHandler.StartDraft)
	drafts.Get("/:id", stockHandler.GetDraft)
	drafts.Delete("/:id", stockHandler.Discard)
	drafts.Get("/:id/products", stockHandler.DraftProducts)
	drafts.Put("/:id/vendor", stockHandler.SelectVendor)
	drafts.Put("/:id/category", stockHandler.SelectCategory)
	drafts.Put("/:id/product", stockHandler.SelectProduct)
	drafts.Put("/:id/warehouse", stockHandler.SelectWarehouse)
	drafts.Post("/:id/rows", stockHandler.AddRows)
	drafts.Put("/:id/rows/:key", stockHandler.SetRowField)
	drafts.Delete("/:id/rows/:key", stockHandler.RemoveRow)
	drafts.Post("/:id/import", stockHandler.ImportRows)
	drafts.Put("/:id/quantity", stockHandler.SetQuantity)
	drafts.Put("/:id/unit-cost", stockHandler.SetUnitCost)
	drafts.Post("/:id/finalize", stockHandler.Finalize)

	// Transfers
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.ReportUC)
	transfers.Post("/", operador, transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Get("/:id/slip", transferHandler.Slip)
	transfers.Post("/:id/validate", operador, transferHandler.Validate)
	transfers.Post("/:id/commit", operador, transferHandler.Commit)
	transfers.Post("/:id/reject", operador, transferHandler.Reject)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory", reportHandler.Snapshot)
	reports.Get("/inventory/export", reportHandler.Export)
}
