package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/category"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
	"github.com/jhoicas/inventario-distribucion/internal/domain/vendor"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

const warnStaleCategory = "la categoría del producto ya no es hoja: reasigne el producto"

// StockEntryUseCase registra entradas de stock. El borrador pertenece a quien lo crea y
// vive en el DraftStore hasta que se confirma o se descarta.
type StockEntryUseCase struct {
	repos  repository.Set
	tx     repository.TxRunner
	drafts repository.DraftStore
	log    *logger.Logger
}

// NewStockEntryUseCase construye el caso de uso.
func NewStockEntryUseCase(repos repository.Set, tx repository.TxRunner, drafts repository.DraftStore, log *logger.Logger) *StockEntryUseCase {
	return &StockEntryUseCase{repos: repos, tx: tx, drafts: drafts, log: log.Named("stock_entries")}
}

func newKey() string { return uuid.New().String() }

// StartDraft abre un borrador vacío para el usuario.
func (uc *StockEntryUseCase) StartDraft(ctx context.Context, userID string) (*dto.DraftResponse, error) {
	d := stock.NewDraft(uuid.New().String(), userID, time.Now())
	if err := uc.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return uc.draftResponse(ctx, d)
}

// GetDraft devuelve el borrador del usuario.
func (uc *StockEntryUseCase) GetDraft(ctx context.Context, userID, draftID string) (*dto.DraftResponse, error) {
	d, err := uc.load(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	return uc.draftResponse(ctx, d)
}

// SelectVendor fija el proveedor. Debe estar activo y fuera de lista negra.
// Cambiarlo descarta categoría, producto, filas y cantidad.
func (uc *StockEntryUseCase) SelectVendor(ctx context.Context, userID, draftID, vendorID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, _ *entity.Product) error {
		v, err := uc.repos.Vendors.GetByID(ctx, vendorID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NewError(domain.ErrNotFound, vendorID, "vendor_id")
		}
		if err := vendor.CheckStockEntry(v, nil); err != nil {
			return err
		}
		d.SelectVendor(vendorID)
		return nil
	})
}

// SelectCategory fija la categoría de trabajo. Cambiarla descarta el producto y sus filas.
func (uc *StockEntryUseCase) SelectCategory(ctx context.Context, userID, draftID, categoryID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, _ *entity.Product) error {
		c, err := uc.repos.Categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewError(domain.ErrNotFound, categoryID, "category_id")
		}
		d.SelectCategory(categoryID)
		return nil
	})
}

// SelectProduct fija el producto. Debe pertenecer a la categoría elegida (o su subárbol)
// y estar entre los elegibles del proveedor. Cambiarlo descarta filas y cantidad.
func (uc *StockEntryUseCase) SelectProduct(ctx context.Context, userID, draftID, productID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, _ *entity.Product) error {
		p, err := uc.repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewError(domain.ErrNotFound, productID, "product_id")
		}
		allowed, err := uc.candidates(ctx, d, []*entity.Product{p})
		if err != nil {
			return err
		}
		if len(allowed) == 0 {
			if d.VendorID != "" {
				v, err := uc.repos.Vendors.GetByID(ctx, d.VendorID)
				if err != nil {
					return err
				}
				if v != nil && !vendor.IsEligible(v, p) {
					return domain.NewError(domain.ErrProductNotEligible, productID, "product_id")
				}
			}
			return domain.NewError(domain.ErrInvalidInput, productID, "product_id").WithDetail("el producto no pertenece a la categoría elegida")
		}
		d.SelectProduct(productID)
		return nil
	})
}

// SelectWarehouse fija la bodega destino.
func (uc *StockEntryUseCase) SelectWarehouse(ctx context.Context, userID, draftID, warehouseID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, _ *entity.Product) error {
		w, err := uc.repos.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.NewError(domain.ErrNotFound, warehouseID, "warehouse_id")
		}
		d.SelectWarehouse(warehouseID)
		return nil
	})
}

// DraftProducts lista los productos que el borrador admite hoy: los de la categoría elegida
// (subárbol incluido) que además suministra el proveedor elegido.
func (uc *StockEntryUseCase) DraftProducts(ctx context.Context, userID, draftID string) ([]dto.ProductResponse, error) {
	d, err := uc.load(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	allowed, err := uc.candidates(ctx, d, catalog)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(allowed))
	for _, p := range allowed {
		fields := []string{}
		for _, f := range stock.Fields(p) {
			fields = append(fields, string(f))
		}
		out = append(out, dto.ProductResponse{
			ID:                  p.ID,
			Name:                p.Name,
			Unit:                p.Unit,
			ProductGroupID:      p.ProductGroupID,
			SKU:                 p.SKU,
			HasUniqueIdentifier: p.HasUniqueIdentifier,
			HasSerialNo:         p.HasSerialNo,
			HasMacAddress:       p.HasMacAddress,
			HasWarranty:         p.HasWarranty,
			CategoryPath:        []string{},
			Fields:              fields,
			CreatedAt:           p.CreatedAt,
			UpdatedAt:           p.UpdatedAt,
		})
	}
	return out, nil
}

// candidates filtra el catálogo por la categoría y el proveedor del borrador.
func (uc *StockEntryUseCase) candidates(ctx context.Context, d *stock.EntryDraft, catalog []*entity.Product) ([]*entity.Product, error) {
	out := catalog
	if d.VendorID != "" {
		v, err := uc.repos.Vendors.GetByID(ctx, d.VendorID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, domain.NewError(domain.ErrNotFound, d.VendorID, "vendor_id")
		}
		out = vendor.EligibleProducts(v, out)
	}
	if d.CategoryID == "" {
		return out, nil
	}
	list, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := category.Load(list)
	if err != nil {
		return nil, err
	}
	scope := map[string]struct{}{d.CategoryID: {}}
	for _, id := range tree.LeafDescendants(d.CategoryID) {
		scope[id] = struct{}{}
	}
	filtered := make([]*entity.Product, 0, len(out))
	for _, p := range out {
		for _, g := range p.GroupIDs() {
			if _, ok := scope[g]; ok {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// AddRows agrega count filas vacías (1, 3, 5, 10 o 20).
func (uc *StockEntryUseCase) AddRows(ctx context.Context, userID, draftID string, count int) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, p *entity.Product) error {
		_, err := d.AddRows(p, count, newKey)
		return err
	})
}

// SetRowField asigna un campo de una fila. Solo se aceptan los campos que el producto habilita.
func (uc *StockEntryUseCase) SetRowField(ctx context.Context, userID, draftID, key string, in dto.DraftRowFieldRequest) (*dto.DraftResponse, error) {
	f, ok := stock.ParseField(in.Field)
	if !ok {
		return nil, domain.NewError(domain.ErrInvalidInput, key, "field").WithDetail(in.Field)
	}
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, p *entity.Product) error {
		return d.SetRowField(p, key, f, in.Value)
	})
}

// RemoveRow quita una fila.
func (uc *StockEntryUseCase) RemoveRow(ctx context.Context, userID, draftID, key string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, _ *entity.Product) error {
		return d.RemoveRow(key)
	})
}

// SetQuantity fija la cantidad a granel.
func (uc *StockEntryUseCase) SetQuantity(ctx context.Context, userID, draftID string, qty int) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, p *entity.Product) error {
		return d.SetQuantity(p, qty)
	})
}

// SetUnitCost fija el costo unitario.
func (uc *StockEntryUseCase) SetUnitCost(ctx context.Context, userID, draftID string, in dto.DraftUnitCostRequest) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, _ *entity.Product) error {
		return d.SetUnitCost(in.UnitCost)
	})
}

// ImportRows agrega una fila por registro importado (planilla de seriales).
// Los valores de campos que el producto no habilita se ignoran.
func (uc *StockEntryUseCase) ImportRows(ctx context.Context, userID, draftID string, rows []dto.StockItemInput) (*dto.DraftResponse, error) {
	return uc.edit(ctx, userID, draftID, func(d *stock.EntryDraft, p *entity.Product) error {
		if len(rows) == 0 {
			return domain.NewError(domain.ErrEmptyItemSet, draftID, "rows")
		}
		for _, in := range rows {
			added, err := d.AddRows(p, 1, newKey)
			if err != nil {
				return err
			}
			key := added[0].Key
			values := map[stock.Field]string{
				stock.FieldSerialNo:   in.SerialNo,
				stock.FieldMacAddress: in.MacAddress,
				stock.FieldWarranty:   in.Warranty,
			}
			for _, f := range stock.Fields(p) {
				if v := values[f]; v != "" {
					if err := d.SetRowField(p, key, f, v); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// Finalize confirma el borrador como entrada de stock y lo elimina.
func (uc *StockEntryUseCase) Finalize(ctx context.Context, userID, draftID string) (*dto.StockEntryResponse, error) {
	d, err := uc.load(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	out, err := uc.commit(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := uc.drafts.Delete(ctx, d.ID); err != nil {
		uc.log.Warn().Err(err).Str("draft_id", d.ID).Msg("no se pudo eliminar el borrador confirmado")
	}
	return out, nil
}

// Discard elimina el borrador sin registrar nada.
func (uc *StockEntryUseCase) Discard(ctx context.Context, userID, draftID string) error {
	if _, err := uc.load(ctx, userID, draftID); err != nil {
		return err
	}
	return uc.drafts.Delete(ctx, draftID)
}

// Create registra una entrada en un solo paso (clientes de API). Aplica las mismas reglas
// que el borrador: Quantity para granel, Items para identificador único.
func (uc *StockEntryUseCase) Create(ctx context.Context, userID string, in dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error) {
	d := stock.NewDraft(uuid.New().String(), userID, time.Now())
	d.VendorID = in.VendorID
	d.ProductID = in.ProductID
	d.WarehouseID = in.WarehouseID
	d.Quantity = in.Quantity
	d.UnitCost = in.UnitCost
	for _, it := range in.Items {
		d.Rows = append(d.Rows, stock.DraftRow{
			Key:        newKey(),
			SerialNo:   it.SerialNo,
			MacAddress: it.MacAddress,
			Warranty:   it.Warranty,
		})
	}
	return uc.commit(ctx, d)
}

// commit valida el borrador contra el estado actual y persiste la entrada en una transacción.
// Un producto cuya categoría dejó de ser hoja sigue recibiendo stock; la respuesta lo advierte.
func (uc *StockEntryUseCase) commit(ctx context.Context, d *stock.EntryDraft) (*dto.StockEntryResponse, error) {
	var (
		entry *entity.StockEntry
		stale bool
	)
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		var p *entity.Product
		if d.ProductID != "" {
			var err error
			if p, err = repos.Products.GetByID(ctx, d.ProductID); err != nil {
				return err
			}
			if p == nil {
				return domain.NewError(domain.ErrNotFound, d.ProductID, "product_id")
			}
			if err := checkShape(d, p); err != nil {
				return err
			}
			if stale, err = staleBinding(ctx, repos.Categories, p); err != nil {
				return err
			}
		}
		e, err := stock.Finalize(d, p, uuid.New().String(), time.Now())
		if err != nil {
			return err
		}
		v, err := repos.Vendors.GetByID(ctx, e.VendorID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NewError(domain.ErrNotFound, e.VendorID, "vendor_id")
		}
		if err := vendor.CheckStockEntry(v, p); err != nil {
			return err
		}
		w, err := repos.Warehouses.GetByID(ctx, e.WarehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.NewError(domain.ErrNotFound, e.WarehouseID, "warehouse_id")
		}
		if p.HasSerialNo {
			existing, err := repos.StockEntries.List(ctx)
			if err != nil {
				return err
			}
			if dup := stock.SerialConflicts(p.ID, e.Items, existing); len(dup) > 0 {
				return domain.NewError(domain.ErrDuplicateSerial, p.ID, string(stock.FieldSerialNo)).
					WithDetail(strings.Join(dup, ", "))
			}
		}
		if err := repos.StockEntries.Create(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		uc.log.For(ctx).Info().Err(err).Str("product_id", d.ProductID).Str("vendor_id", d.VendorID).Msg("entrada de stock rechazada")
		return nil, err
	}
	uc.log.For(ctx).Info().
		Str("entry_id", entry.ID).
		Str("product_id", entry.ProductID).
		Str("warehouse_id", entry.WarehouseID).
		Int("quantity", entry.Quantity).
		Bool("stale_category", stale).
		Msg("entrada de stock registrada")
	out := toEntryResponse(entry)
	if stale {
		out.Warnings = append(out.Warnings, warnStaleCategory)
	}
	return out, nil
}

// staleBinding indica si alguno de los grupos del producto ya no existe o dejó de ser hoja.
func staleBinding(ctx context.Context, categories repository.CategoryRepository, p *entity.Product) (bool, error) {
	for _, g := range p.GroupIDs() {
		c, err := categories.GetByID(ctx, g)
		if err != nil {
			return false, err
		}
		if c == nil || !c.AllowItemEntry {
			return true, nil
		}
	}
	return false, nil
}

// checkShape rechaza filas para productos a granel y cantidades que no coinciden con las filas.
func checkShape(d *stock.EntryDraft, p *entity.Product) error {
	if !p.HasUniqueIdentifier && len(d.Rows) > 0 {
		return domain.NewError(domain.ErrInvalidInput, p.ID, "items").WithDetail("el producto se registra por cantidad")
	}
	if p.HasUniqueIdentifier && d.Quantity != 0 && d.Quantity != len(d.Rows) {
		return domain.NewError(domain.ErrInvalidInput, p.ID, "quantity").WithDetail("la cantidad debe coincidir con los ítems")
	}
	return nil
}

// GetByID obtiene una entrada. (nil, nil) si no existe.
func (uc *StockEntryUseCase) GetByID(ctx context.Context, id string) (*dto.StockEntryResponse, error) {
	e, err := uc.repos.StockEntries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	return toEntryResponse(e), nil
}

// List lista entradas filtradas por proveedor, producto o bodega.
func (uc *StockEntryUseCase) List(ctx context.Context, in dto.StockEntryListRequest) (*dto.StockEntryListResponse, error) {
	list, err := uc.repos.StockEntries.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		if in.VendorID != "" && e.VendorID != in.VendorID {
			continue
		}
		if in.ProductID != "" && e.ProductID != in.ProductID {
			continue
		}
		if in.WarehouseID != "" && e.WarehouseID != in.WarehouseID {
			continue
		}
		items = append(items, *toEntryResponse(e))
	}
	items, meta := dto.Paginate(items, in.PageRequest)
	return &dto.StockEntryListResponse{Items: items, Page: meta}, nil
}

// Availability calcula la disponibilidad del producto en la bodega.
func (uc *StockEntryUseCase) Availability(ctx context.Context, productID, warehouseID string) (*dto.AvailabilityResponse, error) {
	l, err := LoadLedger(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   l.Available(productID, warehouseID),
	}, nil
}

// ResidentItems lista los ítems del producto que residen hoy en la bodega.
func (uc *StockEntryUseCase) ResidentItems(ctx context.Context, productID, warehouseID string) (*dto.ResidentItemsResponse, error) {
	l, err := LoadLedger(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	return &dto.ResidentItemsResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Items:       toItemResponses(l.ResidentItems(productID, warehouseID)),
	}, nil
}

// load trae el borrador y verifica que pertenezca al usuario.
func (uc *StockEntryUseCase) load(ctx context.Context, userID, draftID string) (*stock.EntryDraft, error) {
	d, err := uc.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewError(domain.ErrNotFound, draftID, "draft_id")
	}
	if d.CreatedBy != "" && d.CreatedBy != userID {
		return nil, domain.NewError(domain.ErrForbidden, draftID, "draft_id")
	}
	return d, nil
}

// edit carga el borrador y su producto, aplica fn y guarda el resultado.
// Si fn falla el borrador almacenado no cambia.
func (uc *StockEntryUseCase) edit(
	ctx context.Context,
	userID, draftID string,
	fn func(d *stock.EntryDraft, p *entity.Product) error,
) (*dto.DraftResponse, error) {
	d, err := uc.load(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	p, err := uc.draftProduct(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := fn(d, p); err != nil {
		return nil, err
	}
	d.UpdatedAt = time.Now()
	if err := uc.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return uc.draftResponse(ctx, d)
}

func (uc *StockEntryUseCase) draftProduct(ctx context.Context, d *stock.EntryDraft) (*entity.Product, error) {
	if d.ProductID == "" {
		return nil, nil
	}
	return uc.repos.Products.GetByID(ctx, d.ProductID)
}

func (uc *StockEntryUseCase) draftResponse(ctx context.Context, d *stock.EntryDraft) (*dto.DraftResponse, error) {
	p, err := uc.draftProduct(ctx, d)
	if err != nil {
		return nil, err
	}
	fields := []string{}
	for _, f := range stock.Fields(p) {
		fields = append(fields, string(f))
	}
	rows := make([]dto.DraftRowResponse, 0, len(d.Rows))
	for _, r := range d.Rows {
		rows = append(rows, dto.DraftRowResponse{Key: r.Key, SerialNo: r.SerialNo, MacAddress: r.MacAddress, Warranty: r.Warranty})
	}
	return &dto.DraftResponse{
		ID:          d.ID,
		VendorID:    d.VendorID,
		CategoryID:  d.CategoryID,
		ProductID:   d.ProductID,
		WarehouseID: d.WarehouseID,
		Quantity:    d.Quantity,
		Rows:        rows,
		Fields:      fields,
		UnitCost:    d.UnitCost,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func toEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	return &dto.StockEntryResponse{
		ID:          e.ID,
		VendorID:    e.VendorID,
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Quantity:    e.Quantity,
		Items:       toItemResponses(e.Items),
		UnitCost:    e.UnitCost,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
