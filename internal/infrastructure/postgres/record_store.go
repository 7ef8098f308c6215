package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// RecordStore implementación del almacén de documentos sobre la tabla records (JSONB).
// Cada llamada tiene un timeout acotado para no bloquear indefinidamente.
type RecordStore struct {
	q       Querier
	timeout time.Duration
}

// NewRecordStore construye el adaptador con un pool o una transacción.
func NewRecordStore(q Querier, timeout time.Duration) *RecordStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RecordStore{q: q, timeout: timeout}
}

func (s *RecordStore) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.timeout)
}

// Create persiste un documento nuevo.
func (s *RecordStore) Create(ctx context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	query := `
		INSERT INTO records (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`
	if _, err := s.q.Exec(ctx, query, collection, id, body); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrDuplicate, id, "id")
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Get obtiene un documento por colección e id.
func (s *RecordStore) Get(ctx context.Context, collection, id string, out any) error {
	return s.get(ctx, `SELECT body FROM records WHERE collection = $1 AND id = $2`, collection, id, out)
}

// GetForUpdate obtiene el documento con SELECT ... FOR UPDATE (requiere transacción).
func (s *RecordStore) GetForUpdate(ctx context.Context, collection, id string, out any) error {
	return s.get(ctx, `SELECT body FROM records WHERE collection = $1 AND id = $2 FOR UPDATE`, collection, id, out)
}

func (s *RecordStore) get(ctx context.Context, query, collection, id string, out any) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	var body []byte
	if err := s.q.QueryRow(ctx, query, collection, id).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get record: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// Update reemplaza el cuerpo de un documento existente.
func (s *RecordStore) Update(ctx context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	query := `UPDATE records SET body = $3, updated_at = now() WHERE collection = $1 AND id = $2`
	cmd, err := s.q.Exec(ctx, query, collection, id, body)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un documento.
func (s *RecordStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	cmd, err := s.q.Exec(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List recorre la colección en orden de inserción.
func (s *RecordStore) List(ctx context.Context, collection string, fn func(raw []byte) error) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	rows, err := s.q.Query(ctx, `SELECT body FROM records WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return fmt.Errorf("scan record: %w", err)
		}
		if err := fn(body); err != nil {
			return err
		}
	}
	return rows.Err()
}
