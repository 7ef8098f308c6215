package excel_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/excel"
)

func TestWriteInventory_HojasYFilas(t *testing.T) {
	var buf bytes.Buffer
	err := excel.WriteInventory(&buf,
		[]excel.StockRow{{Warehouse: "Central", SKU: "ONT-1", Product: "ONT", Quantity: 2, UnitCost: "100", Value: "200"}},
		[]excel.ItemRow{{Warehouse: "Central", SKU: "ONT-1", ItemID: "i1", SerialNo: "S1"}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventario", "Seriales"}, f.GetSheetList())
	v, err := f.GetCellValue("Inventario", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	v, err = f.GetCellValue("Seriales", "D2")
	require.NoError(t, err)
	assert.Equal(t, "S1", v)
}

func TestReadSerialRows_ColumnasPorNombre(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"Garantía", "Serial No", "MAC"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]any{"12m", "S1", "00:11:22:33:44:55"})
	_ = f.SetSheetRow("Sheet1", "A3", &[]any{"", "", ""})
	_ = f.SetSheetRow("Sheet1", "A4", &[]any{"", "S2"})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := excel.ReadSerialRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, excel.ImportedRow{Line: 2, SerialNo: "S1", MacAddress: "00:11:22:33:44:55", Warranty: "12m"}, rows[0])
	assert.Equal(t, "S2", rows[1].SerialNo)
	assert.Equal(t, 4, rows[1].Line)
}

func TestReadSerialRows_SinEncabezadoReconocido(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"foo", "bar"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]any{"1", "2"})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := excel.ReadSerialRows(&buf)
	assert.Error(t, err)
}

func TestInventoryExporter_ValoresConDosDecimales(t *testing.T) {
	snap := &dto.InventorySnapshotResponse{
		Lines: []dto.InventoryLine{{
			WarehouseName: "Central", SKU: "conector-sc", ProductName: "Conector SC",
			Quantity: 3, UnitCost: decimal.RequireFromString("1000.5"), Value: decimal.RequireFromString("3001.5"),
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, excel.InventoryExporter{}.WriteInventory(&buf, snap))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventario"}, f.GetSheetList())
	v, err := f.GetCellValue("Inventario", "G2")
	require.NoError(t, err)
	assert.Equal(t, "1000.50", v)
	v, err = f.GetCellValue("Inventario", "H2")
	require.NoError(t, err)
	assert.Equal(t, "3001.50", v)
}
