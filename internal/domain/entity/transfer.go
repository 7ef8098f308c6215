package entity

import "time"

// Modos de selección de ítems en un traslado.
const (
	SelectionManual = "manual"
	SelectionRandom = "random"
)

// Estados del traslado: draft -> validated -> committed, o draft -> rejected.
const (
	TransferDraft     = "draft"
	TransferValidated = "validated"
	TransferCommitted = "committed"
	TransferRejected  = "rejected"
)

// Transfer mueve cantidad (o ítems identificados) de un producto entre bodegas.
// SelectedItems guarda ids de StockItem; en modo random se llena al validar.
type Transfer struct {
	ID            string     `json:"id"`
	ProductID     string     `json:"productId"`
	FromWarehouse string     `json:"fromWarehouse"`
	ToWarehouse   string     `json:"toWarehouse"`
	Quantity      int        `json:"quantity"`
	SelectionMode string     `json:"selectionMode"`
	SelectedItems []string   `json:"selectedItems"`
	Status        string     `json:"status"`
	RejectReason  string     `json:"rejectReason,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	CommittedAt   *time.Time `json:"committedAt,omitempty"`
}

// IsCommitted indica si el traslado ya afectó el inventario.
func (t *Transfer) IsCommitted() bool { return t.Status == TransferCommitted }
