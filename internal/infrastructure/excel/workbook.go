// Package excel genera y lee libros xlsx (exportación de inventario e importación de seriales).
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/report"
)

const (
	sheetStock = "Inventario"
	sheetItems = "Seriales"
)

// StockRow es una fila de existencias por producto y bodega.
type StockRow struct {
	Warehouse    string
	SKU          string
	Product      string
	CategoryPath string
	Unit         string
	Quantity     int
	UnitCost     string
	Value        string
}

// ItemRow es un ítem identificado residente en una bodega.
type ItemRow struct {
	Warehouse  string
	SKU        string
	ItemID     string
	SerialNo   string
	MacAddress string
	Warranty   string
}

// ImportedRow es una fila leída de una planilla de seriales.
type ImportedRow struct {
	Line       int
	SerialNo   string
	MacAddress string
	Warranty   string
}

// WriteInventory escribe el libro con existencias y, si hay, el detalle de ítems.
func WriteInventory(w io.Writer, stock []StockRow, items []ItemRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetStock); err != nil {
		return fmt.Errorf("renombrar hoja: %w", err)
	}
	header := []any{"Bodega", "SKU", "Producto", "Categoría", "Unidad", "Cantidad", "Costo unitario", "Valor"}
	if err := f.SetSheetRow(sheetStock, "A1", &header); err != nil {
		return fmt.Errorf("encabezado: %w", err)
	}
	for i, r := range stock {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{r.Warehouse, r.SKU, r.Product, r.CategoryPath, r.Unit, r.Quantity, r.UnitCost, r.Value}
		if err := f.SetSheetRow(sheetStock, cell, &row); err != nil {
			return fmt.Errorf("fila %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheetStock, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("panel: %w", err)
	}

	if len(items) > 0 {
		if _, err := f.NewSheet(sheetItems); err != nil {
			return fmt.Errorf("hoja seriales: %w", err)
		}
		header := []any{"Bodega", "SKU", "ID ítem", "Serial", "MAC", "Garantía"}
		if err := f.SetSheetRow(sheetItems, "A1", &header); err != nil {
			return fmt.Errorf("encabezado seriales: %w", err)
		}
		for i, it := range items {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			row := []any{it.Warehouse, it.SKU, it.ItemID, it.SerialNo, it.MacAddress, it.Warranty}
			if err := f.SetSheetRow(sheetItems, cell, &row); err != nil {
				return fmt.Errorf("serial %d: %w", i+2, err)
			}
		}
	}
	return f.Write(w)
}

// ReadSerialRows lee la primera hoja. La primera fila es el encabezado; las columnas se
// reconocen por nombre (serial, mac, garantía) en cualquier orden. Filas vacías se omiten.
func ReadSerialRows(r io.Reader) ([]ImportedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("se requiere encabezado y al menos una fila")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		if key := columnKey(h); key != "" {
			if _, dup := cols[key]; !dup {
				cols[key] = i
			}
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("encabezado sin columnas reconocidas (serial, mac, garantia)")
	}
	cell := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var out []ImportedRow
	for i, row := range rows[1:] {
		ir := ImportedRow{
			Line:       i + 2,
			SerialNo:   cell(row, "serial"),
			MacAddress: cell(row, "mac"),
			Warranty:   cell(row, "warranty"),
		}
		if ir.SerialNo == "" && ir.MacAddress == "" && ir.Warranty == "" {
			continue
		}
		out = append(out, ir)
	}
	return out, nil
}

func columnKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "", "í", "i", "á", "a").Replace(h)
	switch h {
	case "serial", "serialno", "serie", "numeroserie":
		return "serial"
	case "mac", "macaddress", "direccionmac":
		return "mac"
	case "warranty", "garantia":
		return "warranty"
	}
	return ""
}

var _ report.SheetWriter = (*InventoryExporter)(nil)

// InventoryExporter adapta la foto del inventario al libro de WriteInventory.
type InventoryExporter struct{}

// WriteInventory implementa report.SheetWriter.
func (InventoryExporter) WriteInventory(w io.Writer, snap *dto.InventorySnapshotResponse) error {
	stock := make([]StockRow, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		stock = append(stock, StockRow{
			Warehouse:    l.WarehouseName,
			SKU:          l.SKU,
			Product:      l.ProductName,
			CategoryPath: l.CategoryPath,
			Unit:         l.Unit,
			Quantity:     l.Quantity,
			UnitCost:     l.UnitCost.StringFixed(2),
			Value:        l.Value.StringFixed(2),
		})
	}
	items := make([]ItemRow, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, ItemRow{
			Warehouse:  it.WarehouseName,
			SKU:        it.SKU,
			ItemID:     it.ItemID,
			SerialNo:   it.SerialNo,
			MacAddress: it.MacAddress,
			Warranty:   it.Warranty,
		})
	}
	return WriteInventory(w, stock, items)
}
