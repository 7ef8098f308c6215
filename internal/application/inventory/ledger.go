// Package inventory orquesta las entradas de stock (borradores incluidos) y los traslados entre bodegas.
// La disponibilidad nunca se almacena: se deriva de entradas y traslados confirmados en cada lectura.
package inventory

import (
	"context"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/transfer"
)

// LoadLedger reconstruye el ledger desde los repositorios dados (de una transacción o no).
func LoadLedger(ctx context.Context, repos repository.Set) (*transfer.Ledger, error) {
	entries, err := repos.StockEntries.List(ctx)
	if err != nil {
		return nil, err
	}
	transfers, err := repos.Transfers.List(ctx)
	if err != nil {
		return nil, err
	}
	return transfer.NewLedger(entries, transfers), nil
}

func toItemResponses(items []entity.StockItem) []dto.StockItemResponse {
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.StockItemResponse{
			ID:         it.ID,
			SerialNo:   it.SerialNo,
			MacAddress: it.MacAddress,
			Warranty:   it.Warranty,
		})
	}
	return out
}
