// Package category mantiene el árbol de categorías como tabla plana indexada por padre.
// AllowItemEntry nunca se asigna desde fuera: se recalcula en cada mutación estructural.
package category

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

const rootKey = ""

// Tree es un bosque ordenado de categorías.
type Tree struct {
	nodes    map[string]*entity.Category
	children map[string][]string // parentID -> hijos en orden de inserción; "" = raíces
}

// NewTree crea un árbol vacío.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[string]*entity.Category),
		children: make(map[string][]string),
	}
}

// Load reconstruye el árbol desde registros planos.
// Falla con ErrInvalidParent si un padre no existe o hay ciclos.
func Load(list []*entity.Category) (*Tree, error) {
	t := NewTree()
	sorted := make([]*entity.Category, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		if _, dup := t.nodes[c.ID]; dup {
			return nil, domain.NewError(domain.ErrDuplicate, c.ID, "id")
		}
		cp := *c
		t.nodes[c.ID] = &cp
		sorted = append(sorted, &cp)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	for _, c := range sorted {
		if c.ParentID != rootKey {
			if _, ok := t.nodes[c.ParentID]; !ok || c.ParentID == c.ID {
				return nil, domain.NewError(domain.ErrInvalidParent, c.ID, "parentId")
			}
		}
		t.children[c.ParentID] = append(t.children[c.ParentID], c.ID)
	}
	// Todo nodo debe ser alcanzable desde una raíz; lo que no, está en un ciclo.
	reached := 0
	t.walk(rootKey, func(*entity.Category, int) bool {
		reached++
		return true
	})
	if reached != len(t.nodes) {
		for id := range t.nodes {
			if len(t.ResolvePath(id)) == 0 {
				return nil, domain.NewError(domain.ErrInvalidParent, id, "parentId").WithDetail("ciclo en la jerarquía")
			}
		}
	}
	for id := range t.nodes {
		t.sync(id)
	}
	return t, nil
}

// Len devuelve el número de nodos.
func (t *Tree) Len() int { return len(t.nodes) }

// Node devuelve una copia del nodo, o nil si no existe.
func (t *Tree) Node(id string) *entity.Category {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	cp := *n
	return &cp
}

// Exists indica si el id pertenece al árbol.
func (t *Tree) Exists(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// IsLeaf indica si el nodo existe y no tiene hijos.
func (t *Tree) IsLeaf(id string) bool {
	if _, ok := t.nodes[id]; !ok {
		return false
	}
	return len(t.children[id]) == 0
}

// Roots devuelve copias de las raíces en orden.
func (t *Tree) Roots() []entity.Category { return t.Children(rootKey) }

// Children devuelve copias de los hijos directos en orden.
func (t *Tree) Children(id string) []entity.Category {
	ids := t.children[id]
	out := make([]entity.Category, 0, len(ids))
	for _, cid := range ids {
		out = append(out, *t.nodes[cid])
	}
	return out
}

// AddNode agrega un nodo bajo parentID ("" para raíz).
// Si el padre era hoja queda degradado (AllowItemEntry=false) y se devuelve como segundo valor.
// Los productos ya ligados al padre no se tocan; quedan como vínculos obsoletos.
func (t *Tree) AddNode(id, parentID, name string, now time.Time) (*entity.Category, *entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, domain.NewError(domain.ErrInvalidInput, "", "name")
	}
	if id == "" || t.Exists(id) {
		return nil, nil, domain.NewError(domain.ErrDuplicate, id, "id")
	}
	var demoted *entity.Category
	if parentID != rootKey {
		parent, ok := t.nodes[parentID]
		if !ok {
			return nil, nil, domain.NewError(domain.ErrInvalidParent, parentID, "parentId")
		}
		if parent.AllowItemEntry {
			demoted = parent
		}
	}
	node := &entity.Category{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		Position:  t.nextPosition(parentID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.nodes[id] = node
	t.children[parentID] = append(t.children[parentID], id)
	t.sync(id)
	if parentID != rootKey {
		t.sync(parentID)
	}
	if demoted != nil {
		demoted.UpdatedAt = now
		return t.Node(id), t.Node(demoted.ID), nil
	}
	return t.Node(id), nil, nil
}

// Rename cambia el nombre de un nodo sin alterar la estructura.
func (t *Tree) Rename(id, name string, now time.Time) (*entity.Category, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, id, "id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, id, "name")
	}
	n.Name = name
	n.UpdatedAt = now
	return t.Node(id), nil
}

// RemoveNode elimina un nodo. Sin cascade falla con ErrNonEmptyCategory si tiene hijos.
// Con cascade elimina el subárbol completo. En ambos casos, si algún nodo del subárbol
// tiene productos (inUse) la operación se rechaza.
// Devuelve los ids eliminados y el padre promovido a hoja, si lo hubo.
func (t *Tree) RemoveNode(id string, cascade bool, inUse func(categoryID string) bool) ([]string, *entity.Category, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, nil, domain.NewError(domain.ErrNotFound, id, "id")
	}
	if !cascade && len(t.children[id]) > 0 {
		return nil, nil, domain.NewError(domain.ErrNonEmptyCategory, id, "children")
	}
	subtree := t.Descendants(id)
	if inUse != nil {
		for _, cid := range subtree {
			if inUse(cid) {
				return nil, nil, domain.NewError(domain.ErrNonEmptyCategory, cid, "products")
			}
		}
	}
	parentID := n.ParentID
	for _, cid := range subtree {
		delete(t.nodes, cid)
		delete(t.children, cid)
	}
	siblings := t.children[parentID]
	for i, sid := range siblings {
		if sid == id {
			t.children[parentID] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	if parentID == rootKey {
		return subtree, nil, nil
	}
	if len(t.children[parentID]) == 0 {
		delete(t.children, parentID)
		t.sync(parentID)
		return subtree, t.Node(parentID), nil
	}
	return subtree, nil, nil
}

// ResolvePath devuelve los nombres desde la raíz hasta el nodo mediante DFS iterativo.
// Si el id no existe devuelve una secuencia vacía (sin categoría).
func (t *Tree) ResolvePath(id string) []string {
	if _, ok := t.nodes[id]; !ok {
		return []string{}
	}
	type frame struct {
		id    string
		depth int
	}
	stack := pushReversed(nil, t.children[rootKey], 0, func(cid string, d int) frame { return frame{cid, d} })
	path := make([]string, 0, 8)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		path = append(path[:f.depth], t.nodes[f.id].Name)
		if f.id == id {
			return append([]string(nil), path...)
		}
		stack = pushReversed(stack, t.children[f.id], f.depth+1, func(cid string, d int) frame { return frame{cid, d} })
	}
	return []string{}
}

// PathString une la ruta con " / " (vacío si no existe).
func (t *Tree) PathString(id string) string {
	return strings.Join(t.ResolvePath(id), " / ")
}

// Descendants devuelve el id y todos sus descendientes en preorden.
func (t *Tree) Descendants(id string) []string {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []string{id}
	t.walk(id, func(n *entity.Category, _ int) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

// LeafDescendants devuelve las hojas del subárbol (incluye el nodo si es hoja).
func (t *Tree) LeafDescendants(id string) []string {
	var out []string
	for _, cid := range t.Descendants(id) {
		if len(t.children[cid]) == 0 {
			out = append(out, cid)
		}
	}
	return out
}

// Walk recorre todo el bosque en preorden. fn devuelve false para no descender en ese nodo.
func (t *Tree) Walk(fn func(node entity.Category, depth int) bool) {
	t.walk(rootKey, func(n *entity.Category, depth int) bool {
		return fn(*n, depth)
	})
}

// Verify comprueba que AllowItemEntry coincide con IsLeaf en todos los nodos.
func (t *Tree) Verify() error {
	for id, n := range t.nodes {
		if n.AllowItemEntry != t.IsLeaf(id) {
			return fmt.Errorf("categoría %s: allowItemEntry=%t pero hoja=%t", id, n.AllowItemEntry, t.IsLeaf(id))
		}
	}
	return nil
}

// walk recorre en preorden los descendientes de from (sin incluirlo) con una pila explícita.
func (t *Tree) walk(from string, fn func(n *entity.Category, depth int) bool) {
	type frame struct {
		id    string
		depth int
	}
	stack := pushReversed(nil, t.children[from], 0, func(cid string, d int) frame { return frame{cid, d} })
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(t.nodes[f.id], f.depth) {
			continue
		}
		stack = pushReversed(stack, t.children[f.id], f.depth+1, func(cid string, d int) frame { return frame{cid, d} })
	}
}

func (t *Tree) sync(id string) {
	if n, ok := t.nodes[id]; ok {
		n.AllowItemEntry = len(t.children[id]) == 0
	}
}

func (t *Tree) nextPosition(parentID string) int {
	pos := 0
	for _, sid := range t.children[parentID] {
		if p := t.nodes[sid].Position; p >= pos {
			pos = p + 1
		}
	}
	return pos
}

// pushReversed apila ids en orden inverso para que el primero quede en el tope.
func pushReversed[F any](stack []F, ids []string, depth int, mk func(string, int) F) []F {
	for i := len(ids) - 1; i >= 0; i-- {
		stack = append(stack, mk(ids[i], depth))
	}
	return stack
}
