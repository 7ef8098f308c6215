package stock

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

var validate = validator.New()

// DraftRow es una fila en edición de un ítem identificado.
type DraftRow struct {
	Key        string `json:"key"`
	SerialNo   string `json:"serialNo,omitempty"`
	MacAddress string `json:"macAddress,omitempty"`
	Warranty   string `json:"warranty,omitempty"`
}

// EntryDraft es la sesión de captura de una entrada de stock. Pertenece a quien la crea;
// cambiar proveedor, categoría o producto descarta filas y cantidad en curso.
type EntryDraft struct {
	ID          string          `json:"id"`
	VendorID    string          `json:"vendorId"`
	CategoryID  string          `json:"categoryId"`
	ProductID   string          `json:"productId"`
	WarehouseID string          `json:"warehouseId"`
	Quantity    int             `json:"quantity"`
	Rows        []DraftRow      `json:"rows"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewDraft crea un borrador vacío.
func NewDraft(id, createdBy string, now time.Time) *EntryDraft {
	return &EntryDraft{ID: id, CreatedBy: createdBy, Rows: []DraftRow{}, UpdatedAt: now}
}

func (d *EntryDraft) resetItems() {
	d.Rows = []DraftRow{}
	d.Quantity = 0
}

// SelectVendor cambia el proveedor; si cambia, descarta categoría, producto, filas y cantidad.
func (d *EntryDraft) SelectVendor(vendorID string) {
	if d.VendorID == vendorID {
		return
	}
	d.VendorID = vendorID
	d.CategoryID = ""
	d.ProductID = ""
	d.resetItems()
}

// SelectCategory cambia la categoría; si cambia, descarta producto, filas y cantidad.
func (d *EntryDraft) SelectCategory(categoryID string) {
	if d.CategoryID == categoryID {
		return
	}
	d.CategoryID = categoryID
	d.ProductID = ""
	d.resetItems()
}

// SelectProduct cambia el producto; si cambia, descarta filas y cantidad.
func (d *EntryDraft) SelectProduct(productID string) {
	if d.ProductID == productID {
		return
	}
	d.ProductID = productID
	d.resetItems()
}

// SelectWarehouse cambia la bodega destino (no afecta las filas).
func (d *EntryDraft) SelectWarehouse(warehouseID string) {
	d.WarehouseID = warehouseID
}

func (d *EntryDraft) requireProduct(p *entity.Product) error {
	if p == nil || d.ProductID == "" || p.ID != d.ProductID {
		return domain.NewError(domain.ErrInvalidInput, d.ID, "productId").WithDetail("seleccione un producto")
	}
	return nil
}

// AddRows agrega n filas vacías (n en BulkSizes). Solo para productos de identificador único.
func (d *EntryDraft) AddRows(p *entity.Product, n int, newKey func() string) ([]DraftRow, error) {
	if err := d.requireProduct(p); err != nil {
		return nil, err
	}
	if !p.HasUniqueIdentifier {
		return nil, domain.NewError(domain.ErrInvalidInput, p.ID, "rows").WithDetail("el producto se registra por cantidad")
	}
	if !ValidBulkSize(n) {
		return nil, domain.NewError(domain.ErrInvalidInput, d.ID, "count")
	}
	added := make([]DraftRow, 0, n)
	for i := 0; i < n; i++ {
		r := DraftRow{Key: newKey()}
		d.Rows = append(d.Rows, r)
		added = append(added, r)
	}
	return added, nil
}

// SetRowField asigna un campo de una fila. Rechaza campos que el producto no habilita.
func (d *EntryDraft) SetRowField(p *entity.Product, key string, f Field, value string) error {
	if err := d.requireProduct(p); err != nil {
		return err
	}
	if !Enabled(p, f) {
		return domain.NewError(domain.ErrInvalidInput, p.ID, string(f)).WithDetail("campo no habilitado para el producto")
	}
	i := d.rowIndex(key)
	if i < 0 {
		return domain.NewError(domain.ErrNotFound, key, "rows")
	}
	value = strings.TrimSpace(value)
	switch f {
	case FieldSerialNo:
		d.Rows[i].SerialNo = value
	case FieldMacAddress:
		d.Rows[i].MacAddress = value
	case FieldWarranty:
		d.Rows[i].Warranty = value
	}
	return nil
}

// RemoveRow elimina una fila por clave.
func (d *EntryDraft) RemoveRow(key string) error {
	i := d.rowIndex(key)
	if i < 0 {
		return domain.NewError(domain.ErrNotFound, key, "rows")
	}
	d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
	return nil
}

// SetQuantity asigna la cantidad a granel. Solo para productos sin identificador único.
func (d *EntryDraft) SetQuantity(p *entity.Product, qty int) error {
	if err := d.requireProduct(p); err != nil {
		return err
	}
	if p.HasUniqueIdentifier {
		return domain.NewError(domain.ErrInvalidInput, p.ID, "quantity").WithDetail("la cantidad se deriva de los ítems")
	}
	if qty < 0 {
		return domain.NewError(domain.ErrInvalidInput, d.ID, "quantity")
	}
	d.Quantity = qty
	return nil
}

// SetUnitCost asigna el costo unitario de la entrada.
func (d *EntryDraft) SetUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return domain.NewError(domain.ErrInvalidInput, d.ID, "unitCost")
	}
	d.UnitCost = cost
	return nil
}

func (d *EntryDraft) rowIndex(key string) int {
	for i, r := range d.Rows {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// Finalize convierte el borrador en una entrada de stock.
// Identificador único: ErrEmptyItemSet sin filas, ErrDuplicateSerial si se repite un serial,
// campos habilitados obligatorios y los no habilitados se descartan. Quantity = len(items).
// A granel: cantidad positiva y sin ítems.
func Finalize(d *EntryDraft, p *entity.Product, entryID string, now time.Time) (*entity.StockEntry, error) {
	if err := d.requireProduct(p); err != nil {
		return nil, err
	}
	if d.VendorID == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, d.ID, "vendorId")
	}
	if d.WarehouseID == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, d.ID, "warehouseId")
	}
	if d.UnitCost.IsNegative() {
		return nil, domain.NewError(domain.ErrInvalidInput, d.ID, "unitCost")
	}
	entry := &entity.StockEntry{
		ID:          entryID,
		VendorID:    d.VendorID,
		ProductID:   p.ID,
		WarehouseID: d.WarehouseID,
		Items:       []entity.StockItem{},
		UnitCost:    d.UnitCost,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   now,
	}
	if !p.HasUniqueIdentifier {
		if d.Quantity <= 0 {
			return nil, domain.NewError(domain.ErrInvalidInput, d.ID, "quantity").WithDetail("debe ser mayor a cero")
		}
		entry.Quantity = d.Quantity
		return entry, nil
	}
	items, err := BuildItems(p, d.Rows)
	if err != nil {
		return nil, err
	}
	entry.Items = items
	entry.Quantity = len(items)
	return entry, nil
}

// BuildItems valida las filas contra el esquema del producto y produce los ítems.
// La clave de cada fila se conserva como id del ítem.
func BuildItems(p *entity.Product, rows []DraftRow) ([]entity.StockItem, error) {
	if len(rows) == 0 {
		return nil, domain.NewError(domain.ErrEmptyItemSet, p.ID, "items")
	}
	seen := make(map[string]string, len(rows))
	items := make([]entity.StockItem, 0, len(rows))
	for _, r := range rows {
		var it entity.StockItem
		it.ID = r.Key
		if p.HasSerialNo {
			it.SerialNo = strings.TrimSpace(r.SerialNo)
			if it.SerialNo == "" {
				return nil, domain.NewError(domain.ErrInvalidInput, r.Key, string(FieldSerialNo)).WithDetail("requerido")
			}
			if _, dup := seen[it.SerialNo]; dup {
				return nil, domain.NewError(domain.ErrDuplicateSerial, p.ID, string(FieldSerialNo)).WithDetail(it.SerialNo)
			}
			seen[it.SerialNo] = r.Key
		}
		if p.HasMacAddress {
			it.MacAddress = strings.TrimSpace(r.MacAddress)
			if err := validate.Var(it.MacAddress, "required,mac"); err != nil {
				return nil, domain.NewError(domain.ErrInvalidInput, r.Key, string(FieldMacAddress)).WithDetail(it.MacAddress)
			}
		}
		if p.HasWarranty {
			it.Warranty = strings.TrimSpace(r.Warranty)
			if it.Warranty == "" {
				return nil, domain.NewError(domain.ErrInvalidInput, r.Key, string(FieldWarranty)).WithDetail("requerido")
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// SerialConflicts devuelve los seriales de items que ya existen en otras entradas del mismo producto.
func SerialConflicts(productID string, items []entity.StockItem, existing []*entity.StockEntry) []string {
	taken := make(map[string]struct{})
	for _, e := range existing {
		if e.ProductID != productID {
			continue
		}
		for _, it := range e.Items {
			if it.SerialNo != "" {
				taken[it.SerialNo] = struct{}{}
			}
		}
	}
	var out []string
	for _, it := range items {
		if _, ok := taken[it.SerialNo]; ok && it.SerialNo != "" {
			out = append(out, it.SerialNo)
		}
	}
	return out
}
