package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLine existencia valorizada de un producto en una bodega.
type InventoryLine struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	CategoryPath  string          `json:"category_path"`
	Unit          string          `json:"unit"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Value         decimal.Decimal `json:"value"`
}

// InventoryItemLine ítem identificado residente en una bodega.
type InventoryItemLine struct {
	WarehouseName string `json:"warehouse_name"`
	SKU           string `json:"sku"`
	ItemID        string `json:"item_id"`
	SerialNo      string `json:"serial_no,omitempty"`
	MacAddress    string `json:"mac_address,omitempty"`
	Warranty      string `json:"warranty,omitempty"`
}

// InventorySnapshotResponse foto del inventario (una bodega o todas) con su valorización.
type InventorySnapshotResponse struct {
	WarehouseID string              `json:"warehouse_id,omitempty"`
	Lines       []InventoryLine     `json:"lines"`
	Items       []InventoryItemLine `json:"items"`
	TotalUnits  int                 `json:"total_units"`
	TotalValue  decimal.Decimal     `json:"total_value"`
	GeneratedAt time.Time           `json:"generated_at"`
}
