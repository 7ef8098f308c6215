package entity

import (
	"slices"
	"time"
)

// Estados de proveedor.
const (
	VendorStatusActive   = "active"
	VendorStatusInactive = "inactive"
)

// Vendor representa un proveedor y los productos/categorías que puede suministrar.
// SelectedProductIDs admite ids de producto y de categoría.
type Vendor struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	IsBlacklisted      bool      `json:"isBlacklisted"`
	SelectedProductIDs []string  `json:"selectedProductIds"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CanReceiveStock indica si el proveedor puede registrar nuevas entradas.
func (v *Vendor) CanReceiveStock() bool {
	return v.Status == VendorStatusActive && !v.IsBlacklisted
}

// HasSelection indica si el id está en la selección del proveedor.
func (v *Vendor) HasSelection(id string) bool {
	return slices.Contains(v.SelectedProductIDs, id)
}
