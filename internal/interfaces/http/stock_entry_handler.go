package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/excel"
)

// StockEntryHandler maneja entradas de stock y sus borradores (protegido).
// Los borradores pertenecen al usuario del token.
type StockEntryHandler struct {
	uc *inventory.StockEntryUseCase
}

// NewStockEntryHandler construye el handler.
func NewStockEntryHandler(uc *inventory.StockEntryUseCase) *StockEntryHandler {
	return &StockEntryHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar entrada de stock
// @Description  Registro en un paso: quantity para productos a granel, items para identificador único.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "Entrada"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-entries [post]
func (h *StockEntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockEntryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar entradas de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        vendor_id     query  string  false  "Proveedor"
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockEntryListResponse
// @Router       /api/stock-entries [get]
func (h *StockEntryHandler) List(c *fiber.Ctx) error {
	var in dto.StockEntryListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrada de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id} [get]
func (h *StockEntryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "entrada no encontrada")
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Disponibilidad de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/stock/availability [get]
func (h *StockEntryHandler) Availability(c *fiber.Ctx) error {
	productID, warehouseID, ok := productAndWarehouse(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	out, err := h.uc.Availability(c.UserContext(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResidentItems godoc
// @Summary      Ítems identificados presentes en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.ResidentItemsResponse
// @Router       /api/stock/items [get]
func (h *StockEntryHandler) ResidentItems(c *fiber.Ctx) error {
	productID, warehouseID, ok := productAndWarehouse(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	out, err := h.uc.ResidentItems(c.UserContext(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func productAndWarehouse(c *fiber.Ctx) (string, string, bool) {
	p, w := c.Query("product_id"), c.Query("warehouse_id")
	return p, w, p != "" && w != ""
}

// StartDraft godoc
// @Summary      Abrir borrador de entrada
// @Tags         stock-drafts
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.DraftResponse
// @Router       /api/stock-drafts [post]
func (h *StockEntryHandler) StartDraft(c *fiber.Ctx) error {
	out, err := h.uc.StartDraft(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetDraft godoc
// @Summary      Obtener borrador
// @Tags         stock-drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-drafts/{id} [get]
func (h *StockEntryHandler) GetDraft(c *fiber.Ctx) error {
	out, err := h.uc.GetDraft(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DraftProducts godoc
// @Summary      Productos admitidos por el borrador
// @Description  Productos de la categoría elegida (subárbol incluido) que suministra el proveedor elegido.
// @Tags         stock-drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/stock-drafts/{id}/products [get]
func (h *StockEntryHandler) DraftProducts(c *fiber.Ctx) error {
	out, err := h.uc.DraftProducts(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

type selectFunc func(ctx context.Context, userID, draftID, id string) (*dto.DraftResponse, error)

// selection resuelve los PUT de proveedor, categoría, producto y bodega.
func selection(c *fiber.Ctx, sel selectFunc) error {
	var in dto.DraftSelectRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := sel(c.UserContext(), GetUserID(c), c.Params("id"), in.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SelectVendor godoc
// @Summary      Elegir proveedor del borrador
// @Description  Cambiarlo descarta categoría, producto, filas y cantidad.
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.DraftSelectRequest  true  "ID del proveedor"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/vendor [put]
func (h *StockEntryHandler) SelectVendor(c *fiber.Ctx) error {
	return selection(c, h.uc.SelectVendor)
}

// SelectCategory godoc
// @Summary      Elegir categoría del borrador
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.DraftSelectRequest  true  "ID de la categoría"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/category [put]
func (h *StockEntryHandler) SelectCategory(c *fiber.Ctx) error {
	return selection(c, h.uc.SelectCategory)
}

// SelectProduct godoc
// @Summary      Elegir producto del borrador
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.DraftSelectRequest  true  "ID del producto"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/product [put]
func (h *StockEntryHandler) SelectProduct(c *fiber.Ctx) error {
	return selection(c, h.uc.SelectProduct)
}

// SelectWarehouse godoc
// @Summary      Elegir bodega destino del borrador
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.DraftSelectRequest  true  "ID de la bodega"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/warehouse [put]
func (h *StockEntryHandler) SelectWarehouse(c *fiber.Ctx) error {
	return selection(c, h.uc.SelectWarehouse)
}

// AddRows godoc
// @Summary      Agregar filas
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del borrador"
// @Param        body  body  dto.DraftAddRowsRequest  true  "1, 3, 5, 10 o 20"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/rows [post]
func (h *StockEntryHandler) AddRows(c *fiber.Ctx) error {
	var in dto.DraftAddRowsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddRows(c.UserContext(), GetUserID(c), c.Params("id"), in.Count)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRowField godoc
// @Summary      Editar campo de una fila
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del borrador"
// @Param        key   path  string                    true  "Clave de la fila"
// @Param        body  body  dto.DraftRowFieldRequest  true  "serialNo, macAddress o warranty"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/rows/{key} [put]
func (h *StockEntryHandler) SetRowField(c *fiber.Ctx) error {
	var in dto.DraftRowFieldRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetRowField(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("key"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveRow godoc
// @Summary      Quitar fila
// @Tags         stock-drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Param        key  path  string  true  "Clave de la fila"
// @Success      200  {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/rows/{key} [delete]
func (h *StockEntryHandler) RemoveRow(c *fiber.Ctx) error {
	out, err := h.uc.RemoveRow(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetQuantity godoc
// @Summary      Cantidad a granel
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del borrador"
// @Param        body  body  dto.DraftQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/quantity [put]
func (h *StockEntryHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.DraftQuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetQuantity(c.UserContext(), GetUserID(c), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetUnitCost godoc
// @Summary      Costo unitario
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del borrador"
// @Param        body  body  dto.DraftUnitCostRequest  true  "Costo"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/stock-drafts/{id}/unit-cost [put]
func (h *StockEntryHandler) SetUnitCost(c *fiber.Ctx) error {
	var in dto.DraftUnitCostRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetUnitCost(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ImportRows godoc
// @Summary      Importar seriales desde xlsx
// @Description  Primera hoja; encabezados reconocidos: serial, mac, garantía (cualquier orden).
// @Tags         stock-drafts
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID del borrador"
// @Param        file  formData  file    true  "Planilla xlsx"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-drafts/{id}/import [post]
func (h *StockEntryHandler) ImportRows(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo requerido en el campo file"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	defer f.Close()

	rows, err := excel.ReadSerialRows(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	items := make([]dto.StockItemInput, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.StockItemInput{SerialNo: r.SerialNo, MacAddress: r.MacAddress, Warranty: r.Warranty})
	}
	out, err := h.uc.ImportRows(c.UserContext(), GetUserID(c), c.Params("id"), items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Confirmar borrador
// @Tags         stock-drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-drafts/{id}/finalize [post]
func (h *StockEntryHandler) Finalize(c *fiber.Ctx) error {
	out, err := h.uc.Finalize(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Discard godoc
// @Summary      Descartar borrador
// @Tags         stock-drafts
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Router       /api/stock-drafts/{id} [delete]
func (h *StockEntryHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
