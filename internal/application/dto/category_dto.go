package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. ParentID vacío crea una raíz.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	ParentID string `json:"parent_id"`
}

// RenameCategoryRequest entrada para renombrar una categoría.
type RenameCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// CategoryResponse salida de una categoría con su ruta desde la raíz.
type CategoryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ParentID       string    `json:"parent_id,omitempty"`
	AllowItemEntry bool      `json:"allow_item_entry"`
	Position       int       `json:"position"`
	Path           []string  `json:"path"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryNode nodo anidado del árbol (lectura).
type CategoryNode struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ParentID       string          `json:"parent_id,omitempty"`
	AllowItemEntry bool            `json:"allow_item_entry"`
	Children       []*CategoryNode `json:"children"`
}

// CategoryRowResponse fila visible de la vista de árbol según el conjunto desplegado.
type CategoryRowResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Depth          int    `json:"depth"`
	HasChildren    bool   `json:"has_children"`
	Expanded       bool   `json:"expanded"`
	AllowItemEntry bool   `json:"allow_item_entry"`
}

// CreateCategoryResponse resultado de agregar un nodo. Si el padre era hoja queda degradado
// y los productos que tenía ligados se informan como vínculos obsoletos.
type CreateCategoryResponse struct {
	Category        CategoryResponse  `json:"category"`
	DemotedParent   *CategoryResponse `json:"demoted_parent,omitempty"`
	StaleProductIDs []string          `json:"stale_product_ids,omitempty"`
}

// DeleteCategoryResponse resultado de eliminar un nodo (o subárbol).
type DeleteCategoryResponse struct {
	RemovedIDs     []string          `json:"removed_ids"`
	PromotedParent *CategoryResponse `json:"promoted_parent,omitempty"`
}

// CategoryPathResponse ruta de nombres desde la raíz; vacía si el id no existe.
type CategoryPathResponse struct {
	ID   string   `json:"id"`
	Path []string `json:"path"`
}
