package repository

import (
	"context"

	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
)

// DraftStore persiste borradores de entrada de stock (sesiones por operador).
// Get devuelve (nil, nil) si el borrador no existe o expiró.
type DraftStore interface {
	Save(ctx context.Context, draft *stock.EntryDraft) error
	Get(ctx context.Context, id string) (*stock.EntryDraft, error)
	Delete(ctx context.Context, id string) error
}
