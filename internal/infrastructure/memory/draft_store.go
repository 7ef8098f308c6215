package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
)

var _ repository.DraftStore = (*DraftStore)(nil)

type draftEntry struct {
	body      []byte
	expiresAt time.Time
}

// DraftStore guarda borradores en memoria con expiración perezosa (sin goroutines).
type DraftStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]draftEntry
}

// NewDraftStore crea el almacén; ttl <= 0 significa sin expiración.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{ttl: ttl, now: time.Now, items: make(map[string]draftEntry)}
}

// Save guarda (o reemplaza) el borrador y renueva su expiración.
func (s *DraftStore) Save(ctx context.Context, d *stock.EntryDraft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := draftEntry{body: b}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.items[d.ID] = e
	return nil
}

// Get devuelve el borrador o (nil, nil) si no existe o expiró.
func (s *DraftStore) Get(ctx context.Context, id string) (*stock.EntryDraft, error) {
	s.mu.Lock()
	e, ok := s.items[id]
	if ok && !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var d stock.EntryDraft
	if err := json.Unmarshal(e.body, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// Delete elimina el borrador (no falla si no existe).
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}
