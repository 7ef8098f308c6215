package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/records"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

type fixture struct {
	repos      repository.Set
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	vendors    *usecase.VendorUseCase
	warehouses *usecase.WarehouseUseCase
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
	}
}

func (f *fixture) category(t *testing.T, parentID, name string) string {
	t.Helper()
	out, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return out.Category.ID
}

func (f *fixture) product(t *testing.T, categoryID, name string, unique bool) string {
	t.Helper()
	out, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name: name, Unit: "und", ProductGroupID: categoryID,
		HasUniqueIdentifier: unique, HasSerialNo: unique,
	})
	require.NoError(t, err)
	return out.ID
}
