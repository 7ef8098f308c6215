package dto

import "time"

// CreateProductRequest entrada para crear un producto.
// ProductGroupID debe referenciar categorías hoja; admite una lista separada por comas.
// Si SKU viene vacío se deriva del nombre.
type CreateProductRequest struct {
	Name                string `json:"name" validate:"required,min=1,max=200"`
	Unit                string `json:"unit" validate:"required,max=20"`
	ProductGroupID      string `json:"product_group_id" validate:"required"`
	SKU                 string `json:"sku" validate:"omitempty,max=100"`
	HasUniqueIdentifier bool   `json:"has_unique_identifier"`
	HasSerialNo         bool   `json:"has_serial_no"`
	HasMacAddress       bool   `json:"has_mac_address"`
	HasWarranty         bool   `json:"has_warranty"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Los flags de seguimiento no se pueden cambiar si el producto ya tiene stock.
type UpdateProductRequest struct {
	Name                *string `json:"name" validate:"omitempty,min=1,max=200"`
	Unit                *string `json:"unit" validate:"omitempty,max=20"`
	ProductGroupID      *string `json:"product_group_id" validate:"omitempty,min=1"`
	SKU                 *string `json:"sku" validate:"omitempty,min=1,max=100"`
	HasUniqueIdentifier *bool   `json:"has_unique_identifier"`
	HasSerialNo         *bool   `json:"has_serial_no"`
	HasMacAddress       *bool   `json:"has_mac_address"`
	HasWarranty         *bool   `json:"has_warranty"`
}

// ProductResponse salida de un producto.
// Fields lista los campos por ítem que habilita; Warnings advertencias no bloqueantes.
type ProductResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Unit                string    `json:"unit"`
	ProductGroupID      string    `json:"product_group_id"`
	SKU                 string    `json:"sku"`
	HasUniqueIdentifier bool      `json:"has_unique_identifier"`
	HasSerialNo         bool      `json:"has_serial_no"`
	HasMacAddress       bool      `json:"has_mac_address"`
	HasWarranty         bool      `json:"has_warranty"`
	CategoryPath        []string  `json:"category_path"`
	Fields              []string  `json:"fields"`
	Warnings            []string  `json:"warnings,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListRequest filtros de listado. Con IncludeDescendants cuenta todo el subárbol.
type ProductListRequest struct {
	PageRequest
	CategoryID         string `query:"category_id"`
	IncludeDescendants bool   `query:"include_descendants"`
}

// StaleBindingResponse producto ligado a una categoría que ya no es hoja (o no existe).
type StaleBindingResponse struct {
	ProductID    string   `json:"product_id"`
	ProductName  string   `json:"product_name"`
	CategoryID   string   `json:"category_id"`
	CategoryPath []string `json:"category_path"`
	Reason       string   `json:"reason"`
}
