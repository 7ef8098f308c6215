package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItemInput datos de un ítem identificado al registrar una entrada.
type StockItemInput struct {
	SerialNo   string `json:"serial_no"`
	MacAddress string `json:"mac_address"`
	Warranty   string `json:"warranty"`
}

// StockItemResponse ítem identificado de una entrada.
type StockItemResponse struct {
	ID         string `json:"id"`
	SerialNo   string `json:"serial_no,omitempty"`
	MacAddress string `json:"mac_address,omitempty"`
	Warranty   string `json:"warranty,omitempty"`
}

// CreateStockEntryRequest registro directo de una entrada (sin borrador).
// Para productos a granel se usa Quantity; para identificador único, Items.
type CreateStockEntryRequest struct {
	VendorID    string           `json:"vendor_id" validate:"required"`
	ProductID   string           `json:"product_id" validate:"required"`
	WarehouseID string           `json:"warehouse_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"min=0"`
	Items       []StockItemInput `json:"items"`
	UnitCost    decimal.Decimal  `json:"unit_cost"`
}

// StockEntryResponse salida de una entrada de stock.
type StockEntryResponse struct {
	ID          string              `json:"id"`
	VendorID    string              `json:"vendor_id"`
	ProductID   string              `json:"product_id"`
	WarehouseID string              `json:"warehouse_id"`
	Quantity    int                 `json:"quantity"`
	Items       []StockItemResponse `json:"items"`
	UnitCost    decimal.Decimal     `json:"unit_cost"`
	CreatedBy   string              `json:"created_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// StockEntryListRequest filtros del listado de entradas.
type StockEntryListRequest struct {
	PageRequest
	VendorID    string `query:"vendor_id"`
	ProductID   string `query:"product_id"`
	WarehouseID string `query:"warehouse_id"`
}

// StockEntryListResponse lista paginada de entradas.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// AvailabilityResponse disponibilidad derivada de un producto en una bodega.
type AvailabilityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Available   int    `json:"available"`
}

// ResidentItemsResponse ítems que residen hoy en la bodega.
type ResidentItemsResponse struct {
	ProductID   string              `json:"product_id"`
	WarehouseID string              `json:"warehouse_id"`
	Items       []StockItemResponse `json:"items"`
}

// DraftRowResponse fila en edición del borrador.
type DraftRowResponse struct {
	Key        string `json:"key"`
	SerialNo   string `json:"serial_no,omitempty"`
	MacAddress string `json:"mac_address,omitempty"`
	Warranty   string `json:"warranty,omitempty"`
}

// DraftResponse estado del borrador de entrada. Fields son los campos editables por fila.
type DraftResponse struct {
	ID          string             `json:"id"`
	VendorID    string             `json:"vendor_id"`
	CategoryID  string             `json:"category_id"`
	ProductID   string             `json:"product_id"`
	WarehouseID string             `json:"warehouse_id"`
	Quantity    int                `json:"quantity"`
	Rows        []DraftRowResponse `json:"rows"`
	Fields      []string           `json:"fields"`
	UnitCost    decimal.Decimal    `json:"unit_cost"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// DraftSelectRequest selección de proveedor, categoría, producto o bodega.
type DraftSelectRequest struct {
	ID string `json:"id" validate:"required"`
}

// DraftAddRowsRequest agrega filas en bloque.
type DraftAddRowsRequest struct {
	Count int `json:"count" validate:"required,oneof=1 3 5 10 20"`
}

// DraftRowFieldRequest asigna un campo de una fila.
type DraftRowFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// DraftQuantityRequest cantidad a granel.
type DraftQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// DraftUnitCostRequest costo unitario de la entrada.
type DraftUnitCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
}
