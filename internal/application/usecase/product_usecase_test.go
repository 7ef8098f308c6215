package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

func TestProduct_SoloEnHojas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.category(t, "", "Redes")
	f.category(t, a, "Fibra")

	_, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "ONT", Unit: "und", ProductGroupID: a})
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
	_, err = f.products.Create(ctx, dto.CreateProductRequest{Name: "ONT", Unit: "und", ProductGroupID: "nope"})
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestProduct_SKUPorDefectoYDuplicado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	leaf := f.category(t, "", "Cables")

	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Cable UTP Cat 6", Unit: "m", ProductGroupID: leaf})
	require.NoError(t, err)
	assert.Equal(t, "cable-utp-cat-6", p.SKU)
	assert.Equal(t, []string{"Cables"}, p.CategoryPath)
	assert.Empty(t, p.Fields)

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Name: "Otro", Unit: "m", ProductGroupID: leaf, SKU: "CABLE-UTP-CAT-6"})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_SubFlagsSinIdentificadorSeApagan(t *testing.T) {
	f := newFixture()
	leaf := f.category(t, "", "Cables")
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name: "Bobina", Unit: "m", ProductGroupID: leaf, HasSerialNo: true, HasWarranty: true,
	})
	require.NoError(t, err)
	assert.False(t, p.HasSerialNo)
	assert.False(t, p.HasWarranty)
}

func TestProduct_IdentificadorSinCamposAdvierte(t *testing.T) {
	f := newFixture()
	leaf := f.category(t, "", "Equipos")
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name: "Radio", Unit: "und", ProductGroupID: leaf, HasUniqueIdentifier: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.Warnings)
}

func TestProduct_ListarPorCategoriaConDescendientes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	redes := f.category(t, "", "Redes")
	fibra := f.category(t, redes, "Fibra")
	cobre := f.category(t, redes, "Cobre")
	f.product(t, fibra, "ONT", true)
	f.product(t, cobre, "Patch cord", false)

	direct, err := f.products.ListByCategory(ctx, redes, false)
	require.NoError(t, err)
	assert.Empty(t, direct)

	all, err := f.products.List(ctx, dto.ProductListRequest{CategoryID: redes, IncludeDescendants: true})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	_, err = f.products.ListByCategory(ctx, "nope", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_VinculosObsoletosTrasDegradar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	leaf := f.category(t, "", "Redes")
	id := f.product(t, leaf, "Switch", false)
	f.category(t, leaf, "Fibra")

	stale, err := f.products.StaleBindings(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, id, stale[0].ProductID)
	assert.Equal(t, leaf, stale[0].CategoryID)

	got, err := f.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Warnings)
}

func TestProduct_ReasignarCategoria(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.category(t, "", "Redes")
	b := f.category(t, "", "Energía")
	id := f.product(t, a, "UPS", false)

	got, err := f.products.Update(ctx, id, dto.UpdateProductRequest{ProductGroupID: &b})
	require.NoError(t, err)
	assert.Equal(t, []string{"Energía"}, got.CategoryPath)

	path, err := f.products.ResolveCategoryPath(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Energía"}, path)

	missing, err := f.products.Update(ctx, "nope", dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProduct_FlagsCongeladosConStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	leaf := f.category(t, "", "Equipos")
	id := f.product(t, leaf, "ONT", true)
	require.NoError(t, f.repos.StockEntries.Create(ctx, &entity.StockEntry{
		ID: "e1", ProductID: id, WarehouseID: "w1", Quantity: 1,
		Items: []entity.StockItem{{ID: "i1", SerialNo: "S1"}}, CreatedAt: time.Now(),
	}))

	yes := true
	_, err := f.products.Update(ctx, id, dto.UpdateProductRequest{HasMacAddress: &yes})
	require.ErrorIs(t, err, domain.ErrConflict)

	name := "ONT GPON"
	got, err := f.products.Update(ctx, id, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "ONT GPON", got.Name)

	err = f.products.Delete(ctx, id)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestProduct_EliminarDepuraSeleccionDeProveedores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	leaf := f.category(t, "", "Cables")
	id := f.product(t, leaf, "UTP", false)
	v, err := f.vendors.Create(ctx, dto.CreateVendorRequest{Name: "Acme", SelectedProductIDs: []string{id, leaf}})
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, id))
	got, err := f.vendors.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{leaf}, got.SelectedProductIDs)

	assert.ErrorIs(t, f.products.Delete(ctx, id), domain.ErrNotFound)
}
