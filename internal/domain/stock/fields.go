// Package stock decide si una entrada es una cantidad a granel o un conjunto de ítems identificados.
package stock

import (
	"slices"

	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

// Field es un atributo por ítem que un producto puede habilitar.
type Field string

const (
	FieldSerialNo   Field = "serialNo"
	FieldMacAddress Field = "macAddress"
	FieldWarranty   Field = "warranty"
)

// BulkSizes son los tamaños permitidos para agregar filas en bloque.
var BulkSizes = []int{1, 3, 5, 10, 20}

// ValidBulkSize indica si n es un tamaño de bloque permitido.
func ValidBulkSize(n int) bool { return slices.Contains(BulkSizes, n) }

// Fields devuelve los campos editables por ítem para el producto, en orden fijo.
// Vacío si el producto no es de identificador único.
func Fields(p *entity.Product) []Field {
	if p == nil || !p.HasUniqueIdentifier {
		return nil
	}
	var out []Field
	if p.HasSerialNo {
		out = append(out, FieldSerialNo)
	}
	if p.HasMacAddress {
		out = append(out, FieldMacAddress)
	}
	if p.HasWarranty {
		out = append(out, FieldWarranty)
	}
	return out
}

// Enabled indica si el producto habilita el campo.
func Enabled(p *entity.Product, f Field) bool {
	return slices.Contains(Fields(p), f)
}

// ParseField convierte el nombre externo del campo.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldSerialNo, FieldMacAddress, FieldWarranty:
		return Field(s), true
	}
	switch s {
	case "serial_no":
		return FieldSerialNo, true
	case "mac_address":
		return FieldMacAddress, true
	}
	return "", false
}
