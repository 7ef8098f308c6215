package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem es una unidad física identificada (solo para productos de identificador único).
// Solo se guardan los campos que el producto habilita.
type StockItem struct {
	ID         string `json:"id"`
	SerialNo   string `json:"serialNo,omitempty"`
	MacAddress string `json:"macAddress,omitempty"`
	Warranty   string `json:"warranty,omitempty"`
}

// StockEntry registra mercancía recibida de un proveedor en una bodega.
// Si el producto es de identificador único, Quantity == len(Items); si no, Items está vacío.
type StockEntry struct {
	ID          string          `json:"id"`
	VendorID    string          `json:"vendorId"`
	ProductID   string          `json:"productId"`
	WarehouseID string          `json:"warehouseId"`
	Quantity    int             `json:"quantity"`
	Items       []StockItem     `json:"items"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
