package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

func TestTransfer_GranelInsuficienteQuedaRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	f.receive(t, c, c.bulk, 5)

	tr, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.bulk, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferDraft, tr.Status)

	out, err := f.transfers.Validate(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.TransferRejected, out.Status)

	stored, err := f.transfers.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRejected, stored.Status)
	assert.NotEmpty(t, stored.RejectReason)
}

func TestTransfer_ConfirmarUnaSolaVez(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	f.receive(t, c, c.bulk, 5)

	tr, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.bulk, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 5,
	})
	require.NoError(t, err)

	_, err = f.transfers.Commit(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	out, err := f.transfers.Validate(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferValidated, out.Status)

	out, err = f.transfers.Commit(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCommitted, out.Status)
	assert.NotNil(t, out.CommittedAt)

	_, err = f.transfers.Commit(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyCommitted)

	src, err := f.entries.Availability(ctx, c.bulk, c.from)
	require.NoError(t, err)
	dst, err := f.entries.Availability(ctx, c.bulk, c.to)
	require.NoError(t, err)
	assert.Equal(t, 0, src.Available)
	assert.Equal(t, 5, dst.Available)

	_, err = f.transfers.Reject(ctx, tr.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyCommitted)
}

func TestTransfer_MismaBodega(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	f.receive(t, c, c.bulk, 5)

	tr, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.bulk, FromWarehouse: c.from, ToWarehouse: c.from, Quantity: 1,
	})
	require.NoError(t, err)
	_, err = f.transfers.Validate(ctx, tr.ID)
	assert.ErrorIs(t, err, domain.ErrWarehouseMismatch)
}

func TestTransfer_SeleccionManual(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	entry := f.receive(t, c, c.unique, 0, "S1", "S2", "S3")
	first := entry.Items[0].ID

	dup, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.unique, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 2,
		SelectionMode: entity.SelectionManual, SelectedItems: []string{first, first},
	})
	require.NoError(t, err)
	_, err = f.transfers.Validate(ctx, dup.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateSelection)

	tr, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.unique, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 1,
		SelectionMode: entity.SelectionManual, SelectedItems: []string{first},
	})
	require.NoError(t, err)
	_, err = f.transfers.Validate(ctx, tr.ID)
	require.NoError(t, err)
	_, err = f.transfers.Commit(ctx, tr.ID)
	require.NoError(t, err)

	moved, err := f.entries.ResidentItems(ctx, c.unique, c.to)
	require.NoError(t, err)
	require.Len(t, moved.Items, 1)
	assert.Equal(t, "S1", moved.Items[0].SerialNo)

	again, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.unique, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 1,
		SelectedItems: []string{first},
	})
	require.NoError(t, err)
	_, err = f.transfers.Validate(ctx, again.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTransfer_SeleccionAleatoriaDeterminista(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	f.receive(t, c, c.unique, 0, "S1", "S2", "S3", "S4")

	tr, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.unique, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 2,
		SelectionMode: entity.SelectionRandom,
	})
	require.NoError(t, err)
	assert.Empty(t, tr.SelectedItems)

	out, err := f.transfers.Validate(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, out.SelectedItems, 2)
	assert.NotEqual(t, out.SelectedItems[0], out.SelectedItems[1])

	stored, err := f.transfers.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, out.SelectedItems, stored.SelectedItems)

	_, err = f.transfers.Commit(ctx, tr.ID)
	require.NoError(t, err)
	moved, err := f.entries.ResidentItems(ctx, c.unique, c.to)
	require.NoError(t, err)
	assert.Len(t, moved.Items, 2)
}

func TestTransfer_ListarPorBodegaYEstado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.catalog(t)
	f.receive(t, c, c.bulk, 5)

	a, err := f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.bulk, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 1,
	})
	require.NoError(t, err)
	_, err = f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.bulk, FromWarehouse: c.from, ToWarehouse: c.to, Quantity: 2,
	})
	require.NoError(t, err)
	_, err = f.transfers.Reject(ctx, a.ID, "error de digitación")
	require.NoError(t, err)

	list, err := f.transfers.List(ctx, dto.TransferListRequest{WarehouseID: c.to})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)

	list, err = f.transfers.List(ctx, dto.TransferListRequest{Status: entity.TransferRejected})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "error de digitación", list.Items[0].RejectReason)

	_, err = f.transfers.Create(ctx, operador, dto.CreateTransferRequest{
		ProductID: c.bulk, FromWarehouse: "nope", ToWarehouse: c.to, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
