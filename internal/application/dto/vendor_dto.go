package dto

import "time"

// CreateVendorRequest entrada para crear un proveedor. Status por defecto: active.
type CreateVendorRequest struct {
	Name               string   `json:"name" validate:"required,min=1,max=200"`
	Status             string   `json:"status" validate:"omitempty,oneof=active inactive"`
	IsBlacklisted      bool     `json:"is_blacklisted"`
	SelectedProductIDs []string `json:"selected_product_ids" validate:"omitempty,dive,required"`
}

// UpdateVendorRequest entrada para actualizar un proveedor.
type UpdateVendorRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive"`
	IsBlacklisted *bool   `json:"is_blacklisted"`
}

// VendorSelectionRequest agrega un producto o categoría a la selección del proveedor.
type VendorSelectionRequest struct {
	ID string `json:"id" validate:"required"`
}

// VendorResponse salida de un proveedor.
type VendorResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	IsBlacklisted      bool      `json:"is_blacklisted"`
	SelectedProductIDs []string  `json:"selected_product_ids"`
	CanReceiveStock    bool      `json:"can_receive_stock"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// VendorListResponse lista paginada de proveedores.
type VendorListResponse struct {
	Items []VendorResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// VendorSelectionResponse proveedor tras cambiar su selección junto con los productos
// elegibles recalculados. Changed es false si la operación no alteró la selección.
type VendorSelectionResponse struct {
	Vendor           VendorResponse    `json:"vendor"`
	Changed          bool              `json:"changed"`
	EligibleProducts []ProductResponse `json:"eligible_products"`
}
