// Package memory implementa el almacén de registros y los borradores en memoria (desarrollo y pruebas).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
)

var _ repository.RecordStore = (*Store)(nil)

type collection struct {
	docs  map[string][]byte
	order []string
}

func (c *collection) clone() *collection {
	cp := &collection{docs: make(map[string][]byte, len(c.docs)), order: append([]string(nil), c.order...)}
	for id, b := range c.docs {
		cp.docs[id] = b
	}
	return cp
}

// Store guarda cada documento como JSON por colección, en orden de inserción.
// Guardar bytes (no punteros) evita que quien llama modifique el estado interno.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	locked      bool // true dentro de una transacción: el mutex ya lo tiene el TxRunner
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) rlock() func() {
	if s.locked {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lock() func() {
	if s.locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	return c
}

// Create inserta un documento nuevo.
func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	defer s.lock()()
	c := s.coll(collection)
	if _, exists := c.docs[id]; exists {
		return domain.NewError(domain.ErrDuplicate, id, "id")
	}
	c.docs[id] = b
	c.order = append(c.order, id)
	return nil
}

// Get decodifica el documento en out.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.rlock()
	var b []byte
	ok := false
	if c := s.collections[collection]; c != nil {
		b, ok = c.docs[id]
	}
	unlock()
	if !ok {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// GetForUpdate es igual a Get; el aislamiento lo da el TxRunner.
func (s *Store) GetForUpdate(ctx context.Context, collection, id string, out any) error {
	return s.Get(ctx, collection, id, out)
}

// Update reemplaza un documento existente.
func (s *Store) Update(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	defer s.lock()()
	c := s.coll(collection)
	if _, ok := c.docs[id]; !ok {
		return domain.ErrNotFound
	}
	c.docs[id] = b
	return nil
}

// Delete elimina un documento.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lock()()
	c := s.coll(collection)
	if _, ok := c.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// List recorre los documentos de la colección en orden de inserción.
func (s *Store) List(ctx context.Context, collection string, fn func(raw []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.rlock()
	var docs [][]byte
	if c := s.collections[collection]; c != nil {
		docs = make([][]byte, 0, len(c.order))
		for _, id := range c.order {
			docs = append(docs, c.docs[id])
		}
	}
	unlock()
	for _, b := range docs {
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

// snapshot copia el estado para ejecutar una transacción sobre él.
func (s *Store) snapshot() *Store {
	cp := &Store{collections: make(map[string]*collection, len(s.collections)), locked: true}
	for name, c := range s.collections {
		cp.collections[name] = c.clone()
	}
	return cp
}
