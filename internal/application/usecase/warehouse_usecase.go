package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
	tx   repository.TxRunner
	log  *logger.Logger
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, tx repository.TxRunner, log *logger.Logger) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, tx: tx, log: log.Named("warehouses")}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		warehouse, err := repos.Warehouses.GetForUpdate(ctx, id)
		if err != nil || warehouse == nil {
			return err
		}
		if in.Name != nil {
			warehouse.Name = strings.TrimSpace(*in.Name)
		}
		if in.Address != nil {
			warehouse.Address = strings.TrimSpace(*in.Address)
		}
		warehouse.UpdatedAt = time.Now()
		if err := repos.Warehouses.Update(ctx, warehouse); err != nil {
			return err
		}
		out = toWarehouseResponse(warehouse)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	items, meta := dto.Paginate(items, page)
	return &dto.WarehouseListResponse{Items: items, Page: meta}, nil
}

// Delete elimina una bodega. Se rechaza con ErrConflict si alguna entrada o traslado la referencia.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		warehouse, err := repos.Warehouses.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.NewError(domain.ErrNotFound, id, "id")
		}
		entries, err := repos.StockEntries.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.WarehouseID == id {
				return domain.NewError(domain.ErrConflict, id, "stock_entries").WithDetail("la bodega tiene entradas de stock")
			}
		}
		transfers, err := repos.Transfers.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range transfers {
			if t.FromWarehouse == id || t.ToWarehouse == id {
				return domain.NewError(domain.ErrConflict, id, "transfers").WithDetail("la bodega tiene traslados")
			}
		}
		return repos.Warehouses.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.For(ctx).Info().Str("warehouse_id", id).Msg("bodega eliminada")
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
