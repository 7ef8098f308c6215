package stock_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
)

var now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func keys() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}
}

func serialProduct() *entity.Product {
	return &entity.Product{ID: "p", Name: "Router", HasUniqueIdentifier: true, HasSerialNo: true}
}

func bulkProduct() *entity.Product {
	return &entity.Product{ID: "q", Name: "Cable UTP", Unit: "m"}
}

func draftFor(p *entity.Product) *stock.EntryDraft {
	d := stock.NewDraft("d1", "u1", now)
	d.SelectVendor("v1")
	d.SelectCategory("c1")
	d.SelectProduct(p.ID)
	d.SelectWarehouse("w1")
	return d
}

func TestFields_SegunFlags(t *testing.T) {
	assert.Empty(t, stock.Fields(bulkProduct()))
	assert.Equal(t, []stock.Field{stock.FieldSerialNo}, stock.Fields(serialProduct()))

	full := &entity.Product{HasUniqueIdentifier: true, HasSerialNo: true, HasMacAddress: true, HasWarranty: true}
	assert.Equal(t, []stock.Field{stock.FieldSerialNo, stock.FieldMacAddress, stock.FieldWarranty}, stock.Fields(full))

	// Sub-flags sin identificador único se ignoran.
	ignored := &entity.Product{HasSerialNo: true, HasMacAddress: true}
	assert.Empty(t, stock.Fields(ignored))
}

func TestFinalize_SerialDuplicado(t *testing.T) {
	p := serialProduct()
	d := draftFor(p)
	rows, err := d.AddRows(p, 1, keys())
	require.NoError(t, err)
	more, err := d.AddRows(p, 1, func() string { return "k2" })
	require.NoError(t, err)
	require.NoError(t, d.SetRowField(p, rows[0].Key, stock.FieldSerialNo, "S1"))
	require.NoError(t, d.SetRowField(p, more[0].Key, stock.FieldSerialNo, "S1"))

	_, err = stock.Finalize(d, p, "e1", now)
	require.ErrorIs(t, err, domain.ErrDuplicateSerial)
}

func TestFinalize_SerialesDistintos(t *testing.T) {
	p := serialProduct()
	d := draftFor(p)
	gen := keys()
	_, err := d.AddRows(p, 1, gen)
	require.NoError(t, err)
	_, err = d.AddRows(p, 1, gen)
	require.NoError(t, err)
	require.NoError(t, d.SetRowField(p, "k1", stock.FieldSerialNo, "S1"))
	require.NoError(t, d.SetRowField(p, "k2", stock.FieldSerialNo, " S2 "))

	entry, err := stock.Finalize(d, p, "e1", now)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, "S1", entry.Items[0].SerialNo)
	assert.Equal(t, "S2", entry.Items[1].SerialNo)
	assert.Equal(t, "k1", entry.Items[0].ID)
	assert.Equal(t, entry.Quantity, len(entry.Items))
}

func TestFinalize_SinFilasEsEmptyItemSet(t *testing.T) {
	p := serialProduct()
	_, err := stock.Finalize(draftFor(p), p, "e1", now)
	require.ErrorIs(t, err, domain.ErrEmptyItemSet)
}

func TestFinalize_GranelRequiereCantidadPositiva(t *testing.T) {
	p := bulkProduct()
	d := draftFor(p)
	_, err := stock.Finalize(d, p, "e1", now)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, d.SetQuantity(p, 5))
	require.NoError(t, d.SetUnitCost(decimal.NewFromInt(1200)))
	entry, err := stock.Finalize(d, p, "e1", now)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity)
	assert.Empty(t, entry.Items)
	assert.True(t, entry.UnitCost.Equal(decimal.NewFromInt(1200)))
}

func TestAddRows_GranelNoAceptaFilas(t *testing.T) {
	p := bulkProduct()
	_, err := draftFor(p).AddRows(p, 3, keys())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddRows_TamanosDeBloque(t *testing.T) {
	p := serialProduct()
	d := draftFor(p)
	for _, n := range stock.BulkSizes {
		_, err := d.AddRows(p, n, keys())
		require.NoError(t, err, "tamaño %d", n)
	}
	assert.Len(t, d.Rows, 1+3+5+10+20)

	_, err := d.AddRows(p, 7, keys())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetQuantity_IdentificadorUnicoRechaza(t *testing.T) {
	p := serialProduct()
	err := draftFor(p).SetQuantity(p, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetRowField_CampoNoHabilitado(t *testing.T) {
	p := serialProduct()
	d := draftFor(p)
	_, err := d.AddRows(p, 1, keys())
	require.NoError(t, err)

	err = d.SetRowField(p, "k1", stock.FieldMacAddress, "00:11:22:33:44:55")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, field := domain.Details(err)
	assert.Equal(t, "macAddress", field)

	err = d.SetRowField(p, "nope", stock.FieldSerialNo, "S1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFinalize_ValidaMacYGarantia(t *testing.T) {
	p := &entity.Product{ID: "ap", HasUniqueIdentifier: true, HasMacAddress: true, HasWarranty: true}
	d := draftFor(p)
	_, err := d.AddRows(p, 1, keys())
	require.NoError(t, err)
	require.NoError(t, d.SetRowField(p, "k1", stock.FieldMacAddress, "no-es-mac"))
	require.NoError(t, d.SetRowField(p, "k1", stock.FieldWarranty, "12 meses"))

	_, err = stock.Finalize(d, p, "e1", now)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, d.SetRowField(p, "k1", stock.FieldMacAddress, "00:1A:2B:3C:4D:5E"))
	entry, err := stock.Finalize(d, p, "e1", now)
	require.NoError(t, err)
	assert.Equal(t, "", entry.Items[0].SerialNo, "serial no habilitado no se guarda")
	assert.Equal(t, "12 meses", entry.Items[0].Warranty)
}

func TestBuildItems_DescartaCamposNoHabilitados(t *testing.T) {
	p := serialProduct()
	items, err := stock.BuildItems(p, []stock.DraftRow{{Key: "k", SerialNo: "S9", MacAddress: "00:11:22:33:44:55", Warranty: "1 año"}})
	require.NoError(t, err)
	assert.Equal(t, entity.StockItem{ID: "k", SerialNo: "S9"}, items[0])
}

func TestBuildItems_SerialHabilitadoEsObligatorio(t *testing.T) {
	p := serialProduct()
	for _, serial := range []string{"", "   "} {
		_, err := stock.BuildItems(p, []stock.DraftRow{{Key: "k1", SerialNo: "S1"}, {Key: "k2", SerialNo: serial}})
		require.ErrorIs(t, err, domain.ErrInvalidInput, "serial %q", serial)
		id, field := domain.Details(err)
		assert.Equal(t, "k2", id)
		assert.Equal(t, "serialNo", field)
	}

	// Sin HasSerialNo el serial vacío no se exige ni cuenta como duplicado.
	p = &entity.Product{ID: "w", HasUniqueIdentifier: true, HasWarranty: true}
	items, err := stock.BuildItems(p, []stock.DraftRow{{Key: "k1", Warranty: "6 meses"}, {Key: "k2", Warranty: "6 meses"}})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCambioDeProductoDescartaFilas(t *testing.T) {
	p := serialProduct()
	d := draftFor(p)
	_, err := d.AddRows(p, 5, keys())
	require.NoError(t, err)

	d.SelectProduct("otro")
	assert.Empty(t, d.Rows)
	assert.Equal(t, 0, d.Quantity)

	// Las filas no se pueden editar con el producto anterior.
	err = d.SetRowField(p, "k1", stock.FieldSerialNo, "S1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCambioDeProveedorYCategoriaReinicia(t *testing.T) {
	q := bulkProduct()
	d := draftFor(q)
	require.NoError(t, d.SetQuantity(q, 9))

	d.SelectCategory("c2")
	assert.Empty(t, d.ProductID, "cambiar categoría limpia el producto")
	assert.Equal(t, 0, d.Quantity)

	d.SelectCategory("c2")
	d.SelectProduct(q.ID)
	require.NoError(t, d.SetQuantity(q, 3))
	d.SelectVendor("v1")
	assert.Equal(t, 3, d.Quantity, "mismo proveedor no reinicia")

	d.SelectVendor("v2")
	assert.Empty(t, d.CategoryID)
	assert.Empty(t, d.ProductID)
	assert.Equal(t, 0, d.Quantity)
	assert.Equal(t, "w1", d.WarehouseID, "la bodega se conserva")
}

func TestSerialConflicts(t *testing.T) {
	existing := []*entity.StockEntry{
		{ProductID: "p", Items: []entity.StockItem{{SerialNo: "S1"}}},
		{ProductID: "otro", Items: []entity.StockItem{{SerialNo: "S2"}}},
	}
	items := []entity.StockItem{{SerialNo: "S1"}, {SerialNo: "S2"}}
	assert.Equal(t, []string{"S1"}, stock.SerialConflicts("p", items, existing))
}
