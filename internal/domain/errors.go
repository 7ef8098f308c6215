package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrInvalidState = errors.New("transición de estado no permitida")

	// Árbol de categorías y catálogo
	ErrInvalidParent    = errors.New("la categoría padre no existe")
	ErrNonEmptyCategory = errors.New("la categoría tiene subcategorías o productos")
	ErrInvalidCategory  = errors.New("la categoría no admite productos (no es hoja)")

	// Entradas de stock
	ErrEmptyItemSet       = errors.New("la entrada requiere al menos un ítem")
	ErrDuplicateSerial    = errors.New("número de serie duplicado")
	ErrVendorNotEligible  = errors.New("el proveedor no está habilitado para recibir entradas")
	ErrProductNotEligible = errors.New("el proveedor no suministra este producto")

	// Traslados
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrDuplicateSelection = errors.New("ítem seleccionado más de una vez")
	ErrWarehouseMismatch  = errors.New("la bodega origen y destino son la misma")
	ErrAlreadyCommitted   = errors.New("el traslado ya fue confirmado")
)

// Error agrega detalle estructurado (entidad, campo) a un error de dominio.
// Kind siempre es uno de los errores sentinela, de modo que errors.Is sigue funcionando.
type Error struct {
	Kind     error
	EntityID string
	Field    string
	Detail   string
}

// NewError construye un error de dominio con detalle.
func NewError(kind error, entityID, field string) *Error {
	return &Error{Kind: kind, EntityID: entityID, Field: field}
}

// WithDetail agrega un texto libre al error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		b.WriteString(" (campo: " + e.Field + ")")
	}
	if e.EntityID != "" {
		b.WriteString(" [id: " + e.EntityID + "]")
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// Details extrae entidad y campo de un error si es *Error.
func Details(err error) (entityID, field string) {
	var de *Error
	if errors.As(err, &de) {
		return de.EntityID, de.Field
	}
	return "", ""
}
