package dto

import "time"

// CreateTransferRequest crea un traslado en borrador.
// SelectedItems solo aplica a productos de identificador único en modo manual.
type CreateTransferRequest struct {
	ProductID     string   `json:"product_id" validate:"required"`
	FromWarehouse string   `json:"from_warehouse" validate:"required"`
	ToWarehouse   string   `json:"to_warehouse" validate:"required"`
	Quantity      int      `json:"quantity" validate:"required,min=1"`
	SelectionMode string   `json:"selection_mode" validate:"omitempty,oneof=manual random"`
	SelectedItems []string `json:"selected_items"`
}

// RejectTransferRequest motivo del rechazo.
type RejectTransferRequest struct {
	Reason string `json:"reason" validate:"max=300"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID            string     `json:"id"`
	ProductID     string     `json:"product_id"`
	FromWarehouse string     `json:"from_warehouse"`
	ToWarehouse   string     `json:"to_warehouse"`
	Quantity      int        `json:"quantity"`
	SelectionMode string     `json:"selection_mode"`
	SelectedItems []string   `json:"selected_items"`
	Status        string     `json:"status"`
	RejectReason  string     `json:"reject_reason,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CommittedAt   *time.Time `json:"committed_at,omitempty"`
}

// TransferListRequest filtros del listado de traslados. WarehouseID coincide con origen o destino.
type TransferListRequest struct {
	PageRequest
	ProductID   string `query:"product_id"`
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status" validate:"omitempty,oneof=draft validated committed rejected"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
