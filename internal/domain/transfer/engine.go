package transfer

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

// Picker elige n ids de entre los candidatos para un traslado en modo random.
// Debe ser determinista para un mismo draftID.
type Picker func(draftID string, candidates []string, n int) []string

// NewRandomPicker construye un Picker con PCG sembrado por el id del borrador y un salt fijo.
func NewRandomPicker(salt uint64) Picker {
	return func(draftID string, candidates []string, n int) []string {
		h := fnv.New64a()
		_, _ = h.Write([]byte(draftID))
		r := rand.New(rand.NewPCG(h.Sum64(), salt))
		pool := append([]string(nil), candidates...)
		r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		if n > len(pool) {
			n = len(pool)
		}
		return pool[:n]
	}
}

// NewDraft crea un traslado en estado borrador.
func NewDraft(id, productID, from, to string, qty int, mode string, selected []string, createdBy string, now time.Time) *entity.Transfer {
	if mode == "" {
		mode = entity.SelectionManual
	}
	if selected == nil {
		selected = []string{}
	}
	return &entity.Transfer{
		ID:            id,
		ProductID:     productID,
		FromWarehouse: from,
		ToWarehouse:   to,
		Quantity:      qty,
		SelectionMode: mode,
		SelectedItems: selected,
		Status:        entity.TransferDraft,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate comprueba el borrador contra el ledger. En éxito pasa a Validated;
// cualquier falla de validación lo deja Rejected y devuelve el error.
func Validate(t *entity.Transfer, p *entity.Product, l *Ledger, pick Picker, now time.Time) error {
	if t.Status != entity.TransferDraft {
		if t.Status == entity.TransferCommitted {
			return domain.NewError(domain.ErrAlreadyCommitted, t.ID, "status")
		}
		return domain.NewError(domain.ErrInvalidState, t.ID, "status").WithDetail(t.Status)
	}
	if err := check(t, p, l, pick); err != nil {
		t.Status = entity.TransferRejected
		t.RejectReason = err.Error()
		t.UpdatedAt = now
		return err
	}
	t.Status = entity.TransferValidated
	t.UpdatedAt = now
	return nil
}

// Commit confirma un traslado validado re-verificando disponibilidad con un ledger fresco.
// Un segundo intento falla con ErrAlreadyCommitted y no vuelve a descontar.
func Commit(t *entity.Transfer, p *entity.Product, l *Ledger, now time.Time) error {
	switch t.Status {
	case entity.TransferCommitted:
		return domain.NewError(domain.ErrAlreadyCommitted, t.ID, "status")
	case entity.TransferValidated:
	default:
		return domain.NewError(domain.ErrInvalidState, t.ID, "status").WithDetail(t.Status)
	}
	if err := checkAvailability(t, p, l); err != nil {
		t.Status = entity.TransferRejected
		t.RejectReason = err.Error()
		t.UpdatedAt = now
		return err
	}
	t.Status = entity.TransferCommitted
	t.CommittedAt = &now
	t.UpdatedAt = now
	return nil
}

// Reject descarta un borrador. Solo Draft -> Rejected; un traslado validado se confirma
// o lo rechaza el propio Commit si ya no hay disponibilidad. Rejected es terminal.
func Reject(t *entity.Transfer, reason string, now time.Time) error {
	switch t.Status {
	case entity.TransferDraft:
	case entity.TransferCommitted:
		return domain.NewError(domain.ErrAlreadyCommitted, t.ID, "status")
	default:
		return domain.NewError(domain.ErrInvalidState, t.ID, "status").WithDetail(t.Status)
	}
	t.Status = entity.TransferRejected
	t.RejectReason = reason
	t.UpdatedAt = now
	return nil
}

func check(t *entity.Transfer, p *entity.Product, l *Ledger, pick Picker) error {
	if p == nil || p.ID != t.ProductID {
		return domain.NewError(domain.ErrNotFound, t.ProductID, "productId")
	}
	if t.FromWarehouse == "" || t.ToWarehouse == "" {
		return domain.NewError(domain.ErrInvalidInput, t.ID, "warehouse")
	}
	if t.FromWarehouse == t.ToWarehouse {
		return domain.NewError(domain.ErrWarehouseMismatch, t.ID, "toWarehouse")
	}
	if t.Quantity <= 0 {
		return domain.NewError(domain.ErrInvalidInput, t.ID, "quantity")
	}
	if t.SelectionMode != entity.SelectionManual && t.SelectionMode != entity.SelectionRandom {
		return domain.NewError(domain.ErrInvalidInput, t.ID, "selectionMode")
	}
	if !p.HasUniqueIdentifier {
		if len(t.SelectedItems) > 0 {
			return domain.NewError(domain.ErrInvalidInput, t.ID, "selectedItems").WithDetail("el producto se traslada por cantidad")
		}
		return checkAvailability(t, p, l)
	}
	if t.SelectionMode == entity.SelectionRandom {
		resident := l.ResidentItems(t.ProductID, t.FromWarehouse)
		if len(resident) < t.Quantity {
			return insufficient(t, len(resident))
		}
		ids := make([]string, len(resident))
		for i, it := range resident {
			ids[i] = it.ID
		}
		t.SelectedItems = pick(t.ID, ids, t.Quantity)
		return checkAvailability(t, p, l)
	}
	seen := make(map[string]struct{}, len(t.SelectedItems))
	for _, id := range t.SelectedItems {
		if _, dup := seen[id]; dup {
			return domain.NewError(domain.ErrDuplicateSelection, id, "selectedItems")
		}
		seen[id] = struct{}{}
	}
	if len(t.SelectedItems) != t.Quantity {
		return domain.NewError(domain.ErrInvalidInput, t.ID, "selectedItems").WithDetail("la cantidad debe coincidir con los ítems seleccionados")
	}
	return checkAvailability(t, p, l)
}

// checkAvailability verifica cantidad y residencia de los ítems en la bodega origen.
func checkAvailability(t *entity.Transfer, p *entity.Product, l *Ledger) error {
	if avail := l.Available(t.ProductID, t.FromWarehouse); avail < t.Quantity {
		return insufficient(t, avail)
	}
	if !p.HasUniqueIdentifier {
		return nil
	}
	for _, id := range t.SelectedItems {
		w, ok := l.Location(id)
		_, owner, _ := l.Item(id)
		if !ok || owner != t.ProductID || w != t.FromWarehouse {
			return domain.NewError(domain.ErrInsufficientStock, id, "selectedItems").WithDetail("el ítem no está en la bodega origen")
		}
	}
	return nil
}

func insufficient(t *entity.Transfer, avail int) error {
	return domain.NewError(domain.ErrInsufficientStock, t.ProductID, "quantity").
		WithDetail("disponible " + strconv.Itoa(avail) + " en " + t.FromWarehouse)
}
