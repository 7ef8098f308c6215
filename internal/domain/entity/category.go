package entity

import "time"

// Category representa un nodo del árbol de categorías.
// Se persiste plano (ParentID vacío si es raíz); el anidamiento se arma en lectura.
// AllowItemEntry es derivado: solo las hojas admiten productos.
type Category struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ParentID       string    `json:"parentId,omitempty"`
	AllowItemEntry bool      `json:"allowItemEntry"`
	Position       int       `json:"position"` // orden de inserción entre hermanos
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool { return c.ParentID == "" }
