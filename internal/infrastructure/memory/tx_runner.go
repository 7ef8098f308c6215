package memory

import (
	"context"

	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks sobre una copia del almacén y la publica solo si fn no falla.
// Mantiene el lock de escritura durante toda la unidad de trabajo (un escritor a la vez).
type TxRunner struct {
	store *Store
	set   func(repository.RecordStore) repository.Set
}

// NewTxRunner construye el runner. set arma los repositorios tipados sobre un RecordStore.
func NewTxRunner(store *Store, set func(repository.RecordStore) repository.Set) *TxRunner {
	return &TxRunner{store: store, set: set}
}

// Run inicia la unidad de trabajo, ejecuta fn y hace commit (swap) o descarta la copia.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := r.store.snapshot()
	if err := fn(r.set(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.collections = tx.collections
	return nil
}
