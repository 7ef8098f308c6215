package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
)

// draft abre un borrador con proveedor, categoría, producto y bodega ya elegidos.
func (f *fixture) draft(t *testing.T, c catalog, productID string) string {
	t.Helper()
	ctx := context.Background()
	d, err := f.entries.StartDraft(ctx, operador)
	require.NoError(t, err)
	_, err = f.entries.SelectVendor(ctx, operador, d.ID, c.vendor)
	require.NoError(t, err)
	_, err = f.entries.SelectCategory(ctx, operador, d.ID, c.leaf)
	require.NoError(t, err)
	_, err = f.entries.SelectProduct(ctx, operador, d.ID, productID)
	require.NoError(t, err)
	_, err = f.entries.SelectWarehouse(ctx, operador, d.ID, c.from)
	require.NoError(t, err)
	return d.ID
}

func (f *fixture) fillSerials(t *testing.T, draftID string, serials ...string) {
	t.Helper()
	ctx := context.Background()
	var d *dto.DraftResponse
	var err error
	for range serials {
		d, err = f.entries.AddRows(ctx, operador, draftID, 1)
		require.NoError(t, err)
	}
	for i, s := range serials {
		_, err = f.entries.SetRowField(ctx, operador, draftID, d.Rows[i].Key, dto.DraftRowFieldRequest{Field: "serialNo", Value: s})
		require.NoError(t, err)
	}
}

func TestStockEntry_SerialRepetidoEnBorrador(t *testing.T) {
	f := newFixture()
	c := f.catalog(t)
	id := f.draft(t, c, c.unique)
	f.fillSerials(t, id, "S1", "S1")

	_, err := f.entries.Finalize(context.Background(), operador, id)
	require.ErrorIs(t, err, domain.ErrDuplicateSerial)

	list, err := f.entries.List(context.Background(), dto.StockEntryListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestStockEntry_SerialesDistintosDanCantidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	id := f.draft(t, c, c.unique)
	f.fillSerials(t, id, "S1", "S2")

	entry, err := f.entries.Finalize(ctx, operador, id)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, "S1", entry.Items[0].SerialNo)

	_, err = f.entries.GetDraft(ctx, operador, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	avail, err := f.entries.Availability(ctx, c.unique, c.from)
	require.NoError(t, err)
	assert.Equal(t, 2, avail.Available)
}

func TestStockEntry_SerialYaRegistrado(t *testing.T) {
	f := newFixture()
	c := f.catalog(t)
	f.receive(t, c, c.unique, 0, "S1")

	_, err := f.entries.Create(context.Background(), operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.unique, WarehouseID: c.from,
		Items: []dto.StockItemInput{{SerialNo: "S2"}, {SerialNo: "S1"}},
	})
	require.ErrorIs(t, err, domain.ErrDuplicateSerial)
}

func TestStockEntry_FormaSegunProducto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)

	_, err := f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.unique, WarehouseID: c.from,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyItemSet)

	_, err = f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.unique, WarehouseID: c.from, Quantity: 3,
		Items: []dto.StockItemInput{{SerialNo: "S1"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.bulk, WarehouseID: c.from, Quantity: 2,
		Items: []dto.StockItemInput{{SerialNo: "S1"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.bulk, WarehouseID: c.from,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	entry, err := f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.bulk, WarehouseID: c.from, Quantity: 5,
		UnitCost: decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity)
	assert.Empty(t, entry.Items)
	assert.True(t, entry.UnitCost.Equal(decimal.NewFromInt(1200)))
}

func TestStockEntry_CambiarProductoDescartaFilas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	id := f.draft(t, c, c.unique)
	f.fillSerials(t, id, "S1", "S2")

	d, err := f.entries.SelectProduct(ctx, operador, id, c.unique)
	require.NoError(t, err)
	assert.Len(t, d.Rows, 2)

	d, err = f.entries.SelectProduct(ctx, operador, id, c.bulk)
	require.NoError(t, err)
	assert.Empty(t, d.Rows)
	assert.Empty(t, d.Fields)
	assert.Zero(t, d.Quantity)

	_, err = f.entries.AddRows(ctx, operador, id, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d, err = f.entries.SetQuantity(ctx, operador, id, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Quantity)

	d, err = f.entries.SelectVendor(ctx, operador, id, c.vendor)
	require.NoError(t, err)
	assert.Equal(t, c.bulk, d.ProductID)
}

func TestStockEntry_ProveedorNoHabilitado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)

	blacklisted := true
	_, err := f.vendors.Update(ctx, c.vendor, dto.UpdateVendorRequest{IsBlacklisted: &blacklisted})
	require.NoError(t, err)

	d, err := f.entries.StartDraft(ctx, operador)
	require.NoError(t, err)
	_, err = f.entries.SelectVendor(ctx, operador, d.ID, c.vendor)
	assert.ErrorIs(t, err, domain.ErrVendorNotEligible)

	_, err = f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.bulk, WarehouseID: c.from, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrVendorNotEligible)
}

func TestStockEntry_ProductoFueraDeSeleccion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	solo, err := f.vendors.Create(ctx, dto.CreateVendorRequest{Name: "Solo ONT", SelectedProductIDs: []string{c.unique}})
	require.NoError(t, err)

	d, err := f.entries.StartDraft(ctx, operador)
	require.NoError(t, err)
	_, err = f.entries.SelectVendor(ctx, operador, d.ID, solo.ID)
	require.NoError(t, err)

	products, err := f.entries.DraftProducts(ctx, operador, d.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, c.unique, products[0].ID)
	assert.Equal(t, []string{"serialNo"}, products[0].Fields)

	_, err = f.entries.SelectProduct(ctx, operador, d.ID, c.bulk)
	assert.ErrorIs(t, err, domain.ErrProductNotEligible)
}

func TestStockEntry_CategoriaDegradadaAdvierte(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	assert.Empty(t, f.receive(t, c, c.bulk, 1).Warnings)

	_, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "ONT XPON", ParentID: c.leaf})
	require.NoError(t, err)

	out, err := f.entries.Create(ctx, operador, dto.CreateStockEntryRequest{
		VendorID: c.vendor, ProductID: c.bulk, WarehouseID: c.from, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Len(t, out.Warnings, 1)

	avail, err := f.entries.Availability(ctx, c.bulk, c.from)
	require.NoError(t, err)
	assert.Equal(t, 3, avail.Available)
}

func TestStockEntry_BorradorAjeno(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d, err := f.entries.StartDraft(ctx, operador)
	require.NoError(t, err)

	_, err = f.entries.GetDraft(ctx, otro, d.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.entries.Discard(ctx, otro, d.ID), domain.ErrForbidden)
	require.NoError(t, f.entries.Discard(ctx, operador, d.ID))
}

func TestStockEntry_ImportarFilas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	id := f.draft(t, c, c.unique)

	d, err := f.entries.ImportRows(ctx, operador, id, []dto.StockItemInput{
		{SerialNo: "A1", MacAddress: "00:11:22:33:44:55"},
		{SerialNo: "A2"},
	})
	require.NoError(t, err)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "A1", d.Rows[0].SerialNo)
	assert.Empty(t, d.Rows[0].MacAddress)

	entry, err := f.entries.Finalize(ctx, operador, id)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)

	resident, err := f.entries.ResidentItems(ctx, c.unique, c.from)
	require.NoError(t, err)
	assert.Len(t, resident.Items, 2)
}
