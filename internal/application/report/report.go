// Package report arma los documentos de salida: foto valorizada del inventario (xlsx)
// y remisión de traslado (PDF). Los generadores concretos viven en infraestructura.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/category"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	costing "github.com/jhoicas/inventario-distribucion/internal/domain/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

// SlipData reúne lo necesario para imprimir la remisión de un traslado confirmado.
type SlipData struct {
	Transfer     *entity.Transfer
	Product      *entity.Product
	From         *entity.Warehouse
	To           *entity.Warehouse
	CategoryPath []string
	Items        []entity.StockItem
	IssuedBy     string
}

// SlipRenderer genera el PDF de la remisión.
type SlipRenderer interface {
	RenderTransferSlip(ctx context.Context, s SlipData) ([]byte, error)
}

// SheetWriter escribe la foto del inventario como libro xlsx.
type SheetWriter interface {
	WriteInventory(w io.Writer, snap *dto.InventorySnapshotResponse) error
}

// UseCase expone los reportes de inventario.
type UseCase struct {
	repos  repository.Set
	slips  SlipRenderer
	sheets SheetWriter
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos repository.Set, slips SlipRenderer, sheets SheetWriter, log *logger.Logger) *UseCase {
	return &UseCase{repos: repos, slips: slips, sheets: sheets, log: log.Named("reports")}
}

// Snapshot calcula existencias por producto y bodega valorizadas al costo promedio ponderado.
// warehouseID vacío incluye todas las bodegas.
func (uc *UseCase) Snapshot(ctx context.Context, warehouseID string) (*dto.InventorySnapshotResponse, error) {
	// ── 1. Catálogo y bodegas ─────────────────────────────────────────────────
	warehouses, err := uc.repos.Warehouses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar bodegas: %w", err)
	}
	byWarehouse := make(map[string]*entity.Warehouse, len(warehouses))
	for _, w := range warehouses {
		byWarehouse[w.ID] = w
	}
	if warehouseID != "" && byWarehouse[warehouseID] == nil {
		return nil, domain.NewError(domain.ErrNotFound, warehouseID, "warehouse_id")
	}
	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar productos: %w", err)
	}
	byProduct := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byProduct[p.ID] = p
	}
	categories, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar categorías: %w", err)
	}
	tree, err := category.Load(categories)
	if err != nil {
		return nil, err
	}

	// ── 2. Costo promedio por producto (entradas en orden de registro) ───────
	entries, err := uc.repos.StockEntries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar entradas: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	costs := make(map[string]*costing.AverageCost)
	for _, e := range entries {
		c := costs[e.ProductID]
		if c == nil {
			c = &costing.AverageCost{}
			costs[e.ProductID] = c
		}
		c.Receive(e.Quantity, e.UnitCost)
	}

	// ── 3. Existencias derivadas ──────────────────────────────────────────────
	ledger, err := inventory.LoadLedger(ctx, uc.repos)
	if err != nil {
		return nil, fmt.Errorf("reporte: ledger: %w", err)
	}
	snap := &dto.InventorySnapshotResponse{
		WarehouseID: warehouseID,
		Lines:       []dto.InventoryLine{},
		Items:       []dto.InventoryItemLine{},
		TotalValue:  decimal.Zero,
		GeneratedAt: time.Now(),
	}
	for _, pos := range ledger.Positions() {
		if pos.Quantity <= 0 || (warehouseID != "" && pos.WarehouseID != warehouseID) {
			continue
		}
		p, w := byProduct[pos.ProductID], byWarehouse[pos.WarehouseID]
		if p == nil || w == nil {
			continue
		}
		line := dto.InventoryLine{
			WarehouseID:   w.ID,
			WarehouseName: w.Name,
			ProductID:     p.ID,
			SKU:           p.SKU,
			ProductName:   p.Name,
			CategoryPath:  tree.PathString(p.PrimaryGroupID()),
			Unit:          p.Unit,
			Quantity:      pos.Quantity,
			UnitCost:      decimal.Zero,
			Value:         decimal.Zero,
		}
		if c := costs[p.ID]; c != nil {
			line.UnitCost = c.Cost()
			line.Value = c.Value(pos.Quantity)
		}
		snap.Lines = append(snap.Lines, line)
		snap.TotalUnits += line.Quantity
		snap.TotalValue = snap.TotalValue.Add(line.Value)
	}
	sort.SliceStable(snap.Lines, func(i, j int) bool {
		a, b := snap.Lines[i], snap.Lines[j]
		if a.WarehouseName != b.WarehouseName {
			return a.WarehouseName < b.WarehouseName
		}
		return a.ProductName < b.ProductName
	})

	// ── 4. Detalle de ítems identificados ────────────────────────────────────
	for _, line := range snap.Lines {
		if !byProduct[line.ProductID].HasUniqueIdentifier {
			continue
		}
		for _, it := range ledger.ResidentItems(line.ProductID, line.WarehouseID) {
			snap.Items = append(snap.Items, dto.InventoryItemLine{
				WarehouseName: line.WarehouseName,
				SKU:           line.SKU,
				ItemID:        it.ID,
				SerialNo:      it.SerialNo,
				MacAddress:    it.MacAddress,
				Warranty:      it.Warranty,
			})
		}
	}
	return snap, nil
}

// ExportInventory escribe la foto del inventario en w y devuelve el nombre sugerido del archivo.
func (uc *UseCase) ExportInventory(ctx context.Context, warehouseID string, w io.Writer) (string, error) {
	snap, err := uc.Snapshot(ctx, warehouseID)
	if err != nil {
		return "", err
	}
	scope := "general"
	if warehouseID != "" {
		wh, err := uc.repos.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return "", err
		}
		if wh != nil {
			scope = wh.Name
		}
	}
	if err := uc.sheets.WriteInventory(w, snap); err != nil {
		return "", fmt.Errorf("reporte: escribir xlsx: %w", err)
	}
	uc.log.Info().
		Str("warehouse_id", warehouseID).
		Int("lines", len(snap.Lines)).
		Int("items", len(snap.Items)).
		Msg("inventario exportado")
	return fmt.Sprintf("inventario-%s-%s.xlsx", slug.Make(scope), snap.GeneratedAt.Format("20060102")), nil
}

// TransferSlip genera la remisión en PDF de un traslado confirmado.
//
// Retorna:
//   - domain.ErrNotFound     si el traslado no existe.
//   - domain.ErrInvalidState si el traslado aún no está confirmado.
func (uc *UseCase) TransferSlip(ctx context.Context, transferID, issuedBy string) ([]byte, error) {
	// ── 1. Traslado confirmado ────────────────────────────────────────────────
	t, err := uc.repos.Transfers.GetByID(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("remisión: obtener traslado: %w", err)
	}
	if t == nil {
		return nil, domain.NewError(domain.ErrNotFound, transferID, "transfer_id")
	}
	if !t.IsCommitted() {
		return nil, domain.NewError(domain.ErrInvalidState, transferID, "status").WithDetail(t.Status)
	}

	// ── 2. Producto, bodegas y ruta de categoría ─────────────────────────────
	p, err := uc.repos.Products.GetByID(ctx, t.ProductID)
	if err != nil {
		return nil, fmt.Errorf("remisión: obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.NewError(domain.ErrNotFound, t.ProductID, "product_id")
	}
	from, err := uc.repos.Warehouses.GetByID(ctx, t.FromWarehouse)
	if err != nil {
		return nil, fmt.Errorf("remisión: obtener bodega origen: %w", err)
	}
	to, err := uc.repos.Warehouses.GetByID(ctx, t.ToWarehouse)
	if err != nil {
		return nil, fmt.Errorf("remisión: obtener bodega destino: %w", err)
	}
	if from == nil || to == nil {
		return nil, domain.NewError(domain.ErrNotFound, transferID, "warehouse")
	}
	categories, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := category.Load(categories)
	if err != nil {
		return nil, err
	}

	// ── 3. Ítems trasladados ──────────────────────────────────────────────────
	ledger, err := inventory.LoadLedger(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	items := make([]entity.StockItem, 0, len(t.SelectedItems))
	for _, id := range t.SelectedItems {
		if it, _, ok := ledger.Item(id); ok {
			items = append(items, it)
		}
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	out, err := uc.slips.RenderTransferSlip(ctx, SlipData{
		Transfer:     t,
		Product:      p,
		From:         from,
		To:           to,
		CategoryPath: tree.ResolvePath(p.PrimaryGroupID()),
		Items:        items,
		IssuedBy:     issuedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("remisión: generar PDF: %w", err)
	}
	return out, nil
}
