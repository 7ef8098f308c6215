// Package transfer deriva la disponibilidad por bodega y gobierna el ciclo de vida de los traslados.
package transfer

import (
	"sort"
	"time"

	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

type slot struct {
	productID   string
	warehouseID string
}

// Position es la existencia derivada de un producto en una bodega.
type Position struct {
	ProductID   string
	WarehouseID string
	Quantity    int
}

// Ledger es una vista derivada (nunca persistida) del stock: entradas menos salidas
// confirmadas más llegadas confirmadas. Se reconstruye en cada lectura.
type Ledger struct {
	qty       map[slot]int
	location  map[string]string // itemID -> bodega actual
	items     map[string]entity.StockItem
	itemOwner map[string]string // itemID -> productID
	order     []string          // ids de ítems en orden de entrada
	slots     []slot
}

// NewLedger construye el ledger con las entradas y los traslados confirmados (en orden de confirmación).
func NewLedger(entries []*entity.StockEntry, transfers []*entity.Transfer) *Ledger {
	l := &Ledger{
		qty:       make(map[slot]int),
		location:  make(map[string]string),
		items:     make(map[string]entity.StockItem),
		itemOwner: make(map[string]string),
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		l.add(slot{e.ProductID, e.WarehouseID}, e.Quantity)
		for _, it := range e.Items {
			l.location[it.ID] = e.WarehouseID
			l.items[it.ID] = it
			l.itemOwner[it.ID] = e.ProductID
			l.order = append(l.order, it.ID)
		}
	}
	committed := make([]*entity.Transfer, 0, len(transfers))
	for _, t := range transfers {
		if t != nil && t.IsCommitted() {
			committed = append(committed, t)
		}
	}
	sort.SliceStable(committed, func(i, j int) bool {
		return committedAt(committed[i]).Before(committedAt(committed[j]))
	})
	for _, t := range committed {
		l.Apply(t)
	}
	return l
}

// Apply incorpora un traslado confirmado al ledger.
func (l *Ledger) Apply(t *entity.Transfer) {
	l.add(slot{t.ProductID, t.FromWarehouse}, -t.Quantity)
	l.add(slot{t.ProductID, t.ToWarehouse}, t.Quantity)
	for _, id := range t.SelectedItems {
		if _, ok := l.location[id]; ok {
			l.location[id] = t.ToWarehouse
		}
	}
}

func (l *Ledger) add(s slot, n int) {
	if _, ok := l.qty[s]; !ok {
		l.slots = append(l.slots, s)
	}
	l.qty[s] += n
}

// Available devuelve la cantidad disponible del producto en la bodega.
func (l *Ledger) Available(productID, warehouseID string) int {
	return l.qty[slot{productID, warehouseID}]
}

// ResidentItems devuelve los ítems del producto que residen en la bodega, en orden de entrada.
func (l *Ledger) ResidentItems(productID, warehouseID string) []entity.StockItem {
	var out []entity.StockItem
	for _, id := range l.order {
		if l.itemOwner[id] == productID && l.location[id] == warehouseID {
			out = append(out, l.items[id])
		}
	}
	return out
}

// Location devuelve la bodega actual de un ítem.
func (l *Ledger) Location(itemID string) (string, bool) {
	w, ok := l.location[itemID]
	return w, ok
}

// Item devuelve el ítem y su producto.
func (l *Ledger) Item(itemID string) (entity.StockItem, string, bool) {
	it, ok := l.items[itemID]
	return it, l.itemOwner[itemID], ok
}

// Positions devuelve las existencias no nulas en orden de aparición.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.slots))
	for _, s := range l.slots {
		if q := l.qty[s]; q != 0 {
			out = append(out, Position{ProductID: s.productID, WarehouseID: s.warehouseID, Quantity: q})
		}
	}
	return out
}

// ReferencesWarehouse indica si alguna entrada o movimiento tocó la bodega.
func (l *Ledger) ReferencesWarehouse(warehouseID string) bool {
	for _, s := range l.slots {
		if s.warehouseID == warehouseID {
			return true
		}
	}
	return false
}

// ReferencesProduct indica si existe stock registrado del producto.
func (l *Ledger) ReferencesProduct(productID string) bool {
	for _, s := range l.slots {
		if s.productID == productID {
			return true
		}
	}
	return false
}

func committedAt(t *entity.Transfer) time.Time {
	if t.CommittedAt != nil {
		return *t.CommittedAt
	}
	return t.UpdatedAt
}
