package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
)

const (
	// draftKeyPrefix prefijo de las claves de borradores.
	draftKeyPrefix = "stock:draft:"

	// DefaultDraftTTL tiempo de vida de un borrador sin actividad.
	DefaultDraftTTL = 8 * time.Hour
)

var _ repository.DraftStore = (*DraftStore)(nil)

// DraftStore implementa repository.DraftStore sobre Redis. Cada Save renueva el TTL.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore construye el almacén de borradores.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{client: client, ttl: ttl}
}

// Save guarda el borrador como JSON.
func (s *DraftStore) Save(ctx context.Context, d *stock.EntryDraft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+d.ID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

// Get devuelve el borrador o (nil, nil) si no existe o expiró.
func (s *DraftStore) Get(ctx context.Context, id string) (*stock.EntryDraft, error) {
	b, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft: %w", err)
	}
	var d stock.EntryDraft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// Delete elimina el borrador.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}
	return nil
}
