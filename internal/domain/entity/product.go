package entity

import (
	"strings"
	"time"
)

// Product representa un producto del catálogo ligado a una categoría hoja.
// Los sub-flags (serial, MAC, garantía) solo aplican cuando HasUniqueIdentifier es true.
type Product struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Unit                string    `json:"unit"`
	ProductGroupID      string    `json:"productGroupId"` // id único o lista separada por comas
	SKU                 string    `json:"sku"`
	HasUniqueIdentifier bool      `json:"hasUniqueIdentifier"`
	HasSerialNo         bool      `json:"hasSerialNo"`
	HasMacAddress       bool      `json:"hasMacAddress"`
	HasWarranty         bool      `json:"hasWarranty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// GroupIDs normaliza ProductGroupID a un conjunto ordenado y sin duplicados.
func (p *Product) GroupIDs() []string {
	return SplitIDs(p.ProductGroupID)
}

// PrimaryGroupID devuelve la categoría principal (la primera de la lista).
func (p *Product) PrimaryGroupID() string {
	ids := p.GroupIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// NormalizeFlags apaga los sub-flags cuando el producto no es de identificador único.
func (p *Product) NormalizeFlags() {
	if !p.HasUniqueIdentifier {
		p.HasSerialNo = false
		p.HasMacAddress = false
		p.HasWarranty = false
	}
}

// DegenerateTracking indica identificador único sin ningún campo habilitado (advertencia, no error).
func (p *Product) DegenerateTracking() bool {
	return p.HasUniqueIdentifier && !p.HasSerialNo && !p.HasMacAddress && !p.HasWarranty
}

// SplitIDs separa una lista "a,b , c" en ids no vacíos, sin repetir y en orden.
func SplitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
