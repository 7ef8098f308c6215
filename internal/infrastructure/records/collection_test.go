package records_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/records"
)

func TestCollection_CRUDSobreMemoria(t *testing.T) {
	ctx := context.Background()
	repos := records.NewSet(memory.NewStore())

	w := &entity.Warehouse{ID: "w1", Name: "Central", CreatedAt: time.Now()}
	require.NoError(t, repos.Warehouses.Create(ctx, w))
	assert.ErrorIs(t, repos.Warehouses.Create(ctx, w), domain.ErrDuplicate)

	got, err := repos.Warehouses.GetByID(ctx, "w1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Central", got.Name)

	// Modificar la copia no altera lo almacenado.
	got.Name = "Otra"
	again, err := repos.Warehouses.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Central", again.Name)

	missing, err := repos.Warehouses.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	got.Name = "Norte"
	require.NoError(t, repos.Warehouses.Update(ctx, got))
	assert.ErrorIs(t, repos.Warehouses.Update(ctx, &entity.Warehouse{ID: "zz"}), domain.ErrNotFound)

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", Name: "Sur"}))
	list, err := repos.Warehouses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Norte", list[0].Name)
	assert.Equal(t, "w2", list[1].ID)

	require.NoError(t, repos.Warehouses.Delete(ctx, "w1"))
	assert.ErrorIs(t, repos.Warehouses.Delete(ctx, "w1"), domain.ErrNotFound)
}

func TestTxRunner_RollbackSiFalla(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := records.NewSet(store)
	tx := memory.NewTxRunner(store, records.NewSet)

	boom := errors.New("boom")
	err := tx.Run(ctx, func(r repository.Set) error {
		require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "A"}))
		return boom
	})
	require.ErrorIs(t, err, boom)
	w, err := repos.Warehouses.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Nil(t, w, "la transacción fallida no deja rastro")

	require.NoError(t, tx.Run(ctx, func(r repository.Set) error {
		return r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "A"})
	}))
	w, err = repos.Warehouses.GetByID(ctx, "w1")
	require.NoError(t, err)
	require.NotNil(t, w)
}
