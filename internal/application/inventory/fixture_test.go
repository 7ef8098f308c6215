package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/transfer"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/records"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

const (
	operador = "user-1"
	otro     = "user-2"
)

type fixture struct {
	repos      repository.Set
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	vendors    *usecase.VendorUseCase
	warehouses *usecase.WarehouseUseCase
	entries    *inventory.StockEntryUseCase
	transfers  *inventory.TransferUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	repos := records.NewSet(store)
	tx := memory.NewTxRunner(store, records.NewSet)
	log := logger.Nop()
	return &fixture{
		repos:      repos,
		categories: usecase.NewCategoryUseCase(repos.Categories, tx, log),
		products:   usecase.NewProductUseCase(repos.Products, repos.Categories, tx, log),
		vendors:    usecase.NewVendorUseCase(repos.Vendors, repos.Products, repos.Categories, tx, log),
		warehouses: usecase.NewWarehouseUseCase(repos.Warehouses, tx, log),
		entries:    inventory.NewStockEntryUseCase(repos, tx, memory.NewDraftStore(0), log),
		transfers:  inventory.NewTransferUseCase(repos, tx, transfer.NewRandomPicker(7), log),
	}
}

// catalog arma una categoría hoja con un producto serializado y uno a granel,
// un proveedor que suministra la categoría y dos bodegas.
type catalog struct {
	leaf, unique, bulk, vendor, from, to string
}

func (f *fixture) catalog(t *testing.T) catalog {
	t.Helper()
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "ONT"})
	require.NoError(t, err)
	leaf := cat.Category.ID

	unique, err := f.products.Create(ctx, dto.CreateProductRequest{
		Name: "ONT Huawei", Unit: "und", ProductGroupID: leaf,
		HasUniqueIdentifier: true, HasSerialNo: true,
	})
	require.NoError(t, err)
	bulk, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Conector SC", Unit: "und", ProductGroupID: leaf})
	require.NoError(t, err)

	v, err := f.vendors.Create(ctx, dto.CreateVendorRequest{Name: "Acme", SelectedProductIDs: []string{leaf}})
	require.NoError(t, err)

	from, err := f.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Central"})
	require.NoError(t, err)
	to, err := f.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Norte"})
	require.NoError(t, err)

	return catalog{leaf: leaf, unique: unique.ID, bulk: bulk.ID, vendor: v.ID, from: from.ID, to: to.ID}
}

// receive registra una entrada directa en la bodega origen.
func (f *fixture) receive(t *testing.T, c catalog, productID string, qty int, serials ...string) *dto.StockEntryResponse {
	t.Helper()
	in := dto.CreateStockEntryRequest{VendorID: c.vendor, ProductID: productID, WarehouseID: c.from, Quantity: qty}
	for _, s := range serials {
		in.Items = append(in.Items, dto.StockItemInput{SerialNo: s})
	}
	out, err := f.entries.Create(context.Background(), operador, in)
	require.NoError(t, err)
	return out
}
