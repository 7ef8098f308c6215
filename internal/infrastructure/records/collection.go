// Package records expone repositorios tipados sobre el almacén genérico de documentos.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
)

var (
	_ repository.CategoryRepository   = (*Collection[entity.Category])(nil)
	_ repository.TransferRepository   = (*Collection[entity.Transfer])(nil)
	_ repository.StockEntryRepository = (*Collection[entity.StockEntry])(nil)
)

// Collection adapta una colección del RecordStore al puerto Repository[T].
type Collection[T any] struct {
	store repository.RecordStore
	name  string
	id    func(*T) string
}

// NewCollection construye el adaptador para la colección name.
func NewCollection[T any](store repository.RecordStore, name string, id func(*T) string) *Collection[T] {
	return &Collection[T]{store: store, name: name, id: id}
}

// Create persiste un registro nuevo.
func (c *Collection[T]) Create(ctx context.Context, v *T) error {
	if err := c.store.Create(ctx, c.name, c.id(v), v); err != nil {
		return fmt.Errorf("insert %s: %w", c.name, err)
	}
	return nil
}

// GetByID obtiene un registro por ID; (nil, nil) si no existe.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return c.get(ctx, id, c.store.Get)
}

// GetForUpdate obtiene y bloquea el registro dentro de la transacción en curso.
func (c *Collection[T]) GetForUpdate(ctx context.Context, id string) (*T, error) {
	return c.get(ctx, id, c.store.GetForUpdate)
}

func (c *Collection[T]) get(ctx context.Context, id string, fetch func(context.Context, string, string, any) error) (*T, error) {
	var v T
	if err := fetch(ctx, c.name, id, &v); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", c.name, err)
	}
	return &v, nil
}

// Update reemplaza un registro existente.
func (c *Collection[T]) Update(ctx context.Context, v *T) error {
	id := c.id(v)
	if err := c.store.Update(ctx, c.name, id, v); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.ErrNotFound, id, "id")
		}
		return fmt.Errorf("update %s: %w", c.name, err)
	}
	return nil
}

// Delete elimina un registro por ID.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.name, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.ErrNotFound, id, "id")
		}
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	return nil
}

// List devuelve todos los registros en orden de inserción.
func (c *Collection[T]) List(ctx context.Context) ([]*T, error) {
	var list []*T
	err := c.store.List(ctx, c.name, func(raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", c.name, err)
		}
		list = append(list, &v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return list, nil
}

// NewSet arma todos los repositorios sobre un mismo RecordStore (o transacción).
func NewSet(store repository.RecordStore) repository.Set {
	return repository.Set{
		Categories: NewCollection(store, repository.CollectionCategories, func(c *entity.Category) string { return c.ID }),
		Products:   NewCollection(store, repository.CollectionProducts, func(p *entity.Product) string { return p.ID }),
		Vendors:    NewCollection(store, repository.CollectionVendors, func(v *entity.Vendor) string { return v.ID }),
		Warehouses: NewCollection(store, repository.CollectionWarehouses, func(w *entity.Warehouse) string { return w.ID }),
		StockEntries: NewCollection(store, repository.CollectionStockEntries, func(e *entity.StockEntry) string {
			return e.ID
		}),
		Transfers: NewCollection(store, repository.CollectionTransfers, func(t *entity.Transfer) string { return t.ID }),
	}
}
