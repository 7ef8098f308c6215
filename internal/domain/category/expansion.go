package category

import "github.com/jhoicas/inventario-distribucion/internal/domain/entity"

// ExpansionSet es el estado de despliegue de la vista de árbol. Lo posee quien llama
// (sesión, query string); el árbol no guarda estado de presentación.
type ExpansionSet map[string]bool

// NewExpansionSet construye el conjunto con los ids desplegados.
func NewExpansionSet(ids ...string) ExpansionSet {
	s := make(ExpansionSet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = true
		}
	}
	return s
}

// Toggle alterna el estado del nodo y devuelve el nuevo valor.
func (s ExpansionSet) Toggle(id string) bool {
	if s[id] {
		delete(s, id)
		return false
	}
	s[id] = true
	return true
}

// Expanded indica si el nodo está desplegado.
func (s ExpansionSet) Expanded(id string) bool { return s[id] }

// Row es una fila visible de la vista de árbol.
type Row struct {
	Category    entity.Category
	Depth       int
	HasChildren bool
	Expanded    bool
}

// VisibleRows enumera en preorden las filas visibles: raíces siempre, hijos solo si el padre está desplegado.
func (t *Tree) VisibleRows(exp ExpansionSet) []Row {
	var rows []Row
	t.Walk(func(n entity.Category, depth int) bool {
		hasChildren := !t.IsLeaf(n.ID)
		open := exp.Expanded(n.ID)
		rows = append(rows, Row{Category: n, Depth: depth, HasChildren: hasChildren, Expanded: open && hasChildren})
		return open
	})
	return rows
}
