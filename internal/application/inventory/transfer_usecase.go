package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/transfer"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

// TransferUseCase gobierna el ciclo Draft -> Validated -> Committed (o Rejected) de los traslados.
// Validate y Commit corren en una transacción con el traslado bloqueado y un ledger recién
// reconstruido; si la regla falla, el rechazo se persiste y el error se devuelve igual.
type TransferUseCase struct {
	repos repository.Set
	tx    repository.TxRunner
	pick  transfer.Picker
	log   *logger.Logger
}

// NewTransferUseCase construye el caso de uso. pick elige los ítems en modo random.
func NewTransferUseCase(repos repository.Set, tx repository.TxRunner, pick transfer.Picker, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{repos: repos, tx: tx, pick: pick, log: log.Named("transfers")}
}

// Create registra un traslado en borrador. Producto y bodegas deben existir.
func (uc *TransferUseCase) Create(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.ErrNotFound, in.ProductID, "product_id")
	}
	for field, id := range map[string]string{"from_warehouse": in.FromWarehouse, "to_warehouse": in.ToWarehouse} {
		w, err := uc.repos.Warehouses.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, domain.NewError(domain.ErrNotFound, id, field)
		}
	}
	t := transfer.NewDraft(uuid.New().String(), in.ProductID, in.FromWarehouse, in.ToWarehouse,
		in.Quantity, in.SelectionMode, in.SelectedItems, userID, time.Now())
	if err := uc.repos.Transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTransferResponse(t), nil
}

// Validate pasa el borrador a Validated o lo deja Rejected con el motivo.
func (uc *TransferUseCase) Validate(ctx context.Context, id string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, id, "validate", func(t *entity.Transfer, p *entity.Product, l *transfer.Ledger, now time.Time) error {
		return transfer.Validate(t, p, l, uc.pick, now)
	})
}

// Commit confirma un traslado validado. Un segundo intento falla con ErrAlreadyCommitted
// y no vuelve a descontar disponibilidad.
func (uc *TransferUseCase) Commit(ctx context.Context, id string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, id, "commit", func(t *entity.Transfer, p *entity.Product, l *transfer.Ledger, now time.Time) error {
		return transfer.Commit(t, p, l, now)
	})
}

// Reject descarta un traslado no confirmado.
func (uc *TransferUseCase) Reject(ctx context.Context, id, reason string) (*dto.TransferResponse, error) {
	if reason == "" {
		reason = "rechazado por el operador"
	}
	return uc.transition(ctx, id, "reject", func(t *entity.Transfer, _ *entity.Product, _ *transfer.Ledger, now time.Time) error {
		return transfer.Reject(t, reason, now)
	})
}

type step func(t *entity.Transfer, p *entity.Product, l *transfer.Ledger, now time.Time) error

// transition bloquea el traslado y su bodega origen, aplica la regla y persiste el traslado si cambió de estado.
// Devuelve el traslado resultante junto con el error de la regla, si lo hubo.
func (uc *TransferUseCase) transition(ctx context.Context, id, action string, apply step) (*dto.TransferResponse, error) {
	var result *entity.Transfer
	var outcome error
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		t, err := repos.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NewError(domain.ErrNotFound, id, "transfer_id")
		}
		// La bodega origen se bloquea antes de leer el ledger: dos traslados que descuentan
		// de la misma bodega no pueden validar ni confirmar contra la misma disponibilidad.
		if _, err := repos.Warehouses.GetForUpdate(ctx, t.FromWarehouse); err != nil {
			return err
		}
		p, err := repos.Products.GetByID(ctx, t.ProductID)
		if err != nil {
			return err
		}
		l, err := LoadLedger(ctx, repos)
		if err != nil {
			return err
		}
		before := t.Status
		outcome = apply(t, p, l, time.Now())
		if t.Status != before {
			if err := repos.Transfers.Update(ctx, t); err != nil {
				return err
			}
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	log := uc.log.For(ctx)
	ev := log.Info()
	if outcome != nil {
		ev = log.Warn().Err(outcome)
	}
	ev.Str("transfer_id", result.ID).
		Str("action", action).
		Str("status", result.Status).
		Str("product_id", result.ProductID).
		Str("from", result.FromWarehouse).
		Str("to", result.ToWarehouse).
		Int("quantity", result.Quantity).
		Msg("traslado")
	return toTransferResponse(result), outcome
}

// GetByID obtiene un traslado. (nil, nil) si no existe.
func (uc *TransferUseCase) GetByID(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	return toTransferResponse(t), nil
}

// List lista traslados filtrados por producto, bodega (origen o destino) y estado.
func (uc *TransferUseCase) List(ctx context.Context, in dto.TransferListRequest) (*dto.TransferListResponse, error) {
	list, err := uc.repos.Transfers.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		if in.ProductID != "" && t.ProductID != in.ProductID {
			continue
		}
		if in.WarehouseID != "" && t.FromWarehouse != in.WarehouseID && t.ToWarehouse != in.WarehouseID {
			continue
		}
		if in.Status != "" && t.Status != in.Status {
			continue
		}
		items = append(items, *toTransferResponse(t))
	}
	items, meta := dto.Paginate(items, in.PageRequest)
	return &dto.TransferListResponse{Items: items, Page: meta}, nil
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	selected := t.SelectedItems
	if selected == nil {
		selected = []string{}
	}
	return &dto.TransferResponse{
		ID:            t.ID,
		ProductID:     t.ProductID,
		FromWarehouse: t.FromWarehouse,
		ToWarehouse:   t.ToWarehouse,
		Quantity:      t.Quantity,
		SelectionMode: t.SelectionMode,
		SelectedItems: selected,
		Status:        t.Status,
		RejectReason:  t.RejectReason,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CommittedAt:   t.CommittedAt,
	}
}
