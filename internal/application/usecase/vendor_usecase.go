package usecase

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
	"github.com/jhoicas/inventario-distribucion/internal/domain/vendor"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

// VendorUseCase administra proveedores y su selección de productos/categorías.
// Los productos elegibles se recalculan en cada lectura a partir de la selección vigente.
type VendorUseCase struct {
	vendors    repository.VendorRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tx         repository.TxRunner
	log        *logger.Logger
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(
	vendors repository.VendorRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tx repository.TxRunner,
	log *logger.Logger,
) *VendorUseCase {
	return &VendorUseCase{vendors: vendors, products: products, categories: categories, tx: tx, log: log.Named("vendors")}
}

// Create crea un proveedor. Cada id de la selección debe ser un producto o una categoría existente.
func (uc *VendorUseCase) Create(ctx context.Context, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	status := in.Status
	if status == "" {
		status = entity.VendorStatusActive
	}
	if !vendor.ValidStatus(status) {
		return nil, domain.NewError(domain.ErrInvalidInput, "", "status").WithDetail(status)
	}
	selection := vendor.NormalizeSelection(in.SelectedProductIDs)
	var out *dto.VendorResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		for _, id := range selection {
			if err := selectable(ctx, repos, id); err != nil {
				return err
			}
		}
		now := time.Now()
		v := &entity.Vendor{
			ID:                 uuid.New().String(),
			Name:               strings.TrimSpace(in.Name),
			Status:             status,
			IsBlacklisted:      in.IsBlacklisted,
			SelectedProductIDs: selection,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := repos.Vendors.Create(ctx, v); err != nil {
			return err
		}
		out = toVendorResponse(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un proveedor por ID. (nil, nil) si no existe.
func (uc *VendorUseCase) GetByID(ctx context.Context, id string) (*dto.VendorResponse, error) {
	v, err := uc.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return toVendorResponse(v), nil
}

// Update actualiza nombre, estado o lista negra.
func (uc *VendorUseCase) Update(ctx context.Context, id string, in dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	var out *dto.VendorResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		v, err := repos.Vendors.GetForUpdate(ctx, id)
		if err != nil || v == nil {
			return err
		}
		if in.Name != nil {
			v.Name = strings.TrimSpace(*in.Name)
		}
		if in.Status != nil {
			if !vendor.ValidStatus(*in.Status) {
				return domain.NewError(domain.ErrInvalidInput, id, "status").WithDetail(*in.Status)
			}
			v.Status = *in.Status
		}
		if in.IsBlacklisted != nil {
			v.IsBlacklisted = *in.IsBlacklisted
		}
		v.UpdatedAt = time.Now()
		if err := repos.Vendors.Update(ctx, v); err != nil {
			return err
		}
		out = toVendorResponse(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista proveedores con paginación.
func (uc *VendorUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.VendorListResponse, error) {
	list, err := uc.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVendorResponse(v))
	}
	items, meta := dto.Paginate(items, page)
	return &dto.VendorListResponse{Items: items, Page: meta}, nil
}

// Delete elimina un proveedor. Se rechaza con ErrConflict si tiene entradas de stock.
func (uc *VendorUseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		v, err := repos.Vendors.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NewError(domain.ErrNotFound, id, "id")
		}
		entries, err := repos.StockEntries.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.VendorID == id {
				return domain.NewError(domain.ErrConflict, id, "stock_entries").WithDetail("el proveedor tiene entradas de stock")
			}
		}
		return repos.Vendors.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.For(ctx).Info().Str("vendor_id", id).Msg("proveedor eliminado")
	return nil
}

// AddSelection agrega un producto o categoría a la selección (idempotente) y devuelve
// los productos elegibles recalculados.
func (uc *VendorUseCase) AddSelection(ctx context.Context, vendorID string, in dto.VendorSelectionRequest) (*dto.VendorSelectionResponse, error) {
	id := strings.TrimSpace(in.ID)
	return uc.changeSelection(ctx, vendorID, func(repos repository.Set, v *entity.Vendor) (bool, error) {
		if err := selectable(ctx, repos, id); err != nil {
			return false, err
		}
		return vendor.AddSelection(v, id), nil
	})
}

// RemoveSelection quita un id de la selección. Quitar algo que no estaba no es error.
func (uc *VendorUseCase) RemoveSelection(ctx context.Context, vendorID, id string) (*dto.VendorSelectionResponse, error) {
	return uc.changeSelection(ctx, vendorID, func(_ repository.Set, v *entity.Vendor) (bool, error) {
		return vendor.RemoveSelection(v, id), nil
	})
}

func (uc *VendorUseCase) changeSelection(
	ctx context.Context,
	vendorID string,
	change func(repos repository.Set, v *entity.Vendor) (bool, error),
) (*dto.VendorSelectionResponse, error) {
	var out *dto.VendorSelectionResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		v, err := repos.Vendors.GetForUpdate(ctx, vendorID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NewError(domain.ErrNotFound, vendorID, "vendor_id")
		}
		changed, err := change(repos, v)
		if err != nil {
			return err
		}
		if changed {
			v.UpdatedAt = time.Now()
			if err := repos.Vendors.Update(ctx, v); err != nil {
				return err
			}
		}
		eligible, err := eligibleFor(ctx, repos.Categories, repos.Products, v)
		if err != nil {
			return err
		}
		out = &dto.VendorSelectionResponse{Vendor: *toVendorResponse(v), Changed: changed, EligibleProducts: eligible}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EligibleProducts devuelve los productos que el proveedor puede suministrar según su selección.
func (uc *VendorUseCase) EligibleProducts(ctx context.Context, vendorID string) ([]dto.ProductResponse, error) {
	v, err := uc.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewError(domain.ErrNotFound, vendorID, "vendor_id")
	}
	return eligibleFor(ctx, uc.categories, uc.products, v)
}

// EligibleVendors lista los proveedores que pueden registrar entradas (activos y fuera de lista negra).
func (uc *VendorUseCase) EligibleVendors(ctx context.Context) ([]dto.VendorResponse, error) {
	list, err := uc.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		if v.CanReceiveStock() {
			out = append(out, *toVendorResponse(v))
		}
	}
	return out, nil
}

func eligibleFor(
	ctx context.Context,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	v *entity.Vendor,
) ([]dto.ProductResponse, error) {
	catalog, err := products.List(ctx)
	if err != nil {
		return nil, err
	}
	list, err := categories.List(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := category.Load(list)
	if err != nil {
		return nil, err
	}
	return toProductResponses(tree, vendor.EligibleProducts(v, catalog)), nil
}

// selectable exige que id sea un producto o una categoría hoja existente.
// Los productos solo se ligan a hojas; una categoría intermedia nunca coincidiría.
func selectable(ctx context.Context, repos repository.Set, id string) error {
	if id == "" {
		return domain.NewError(domain.ErrInvalidInput, "", "id")
	}
	p, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p != nil {
		return nil
	}
	c, err := repos.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewError(domain.ErrNotFound, id, "selected_product_ids")
	}
	if !c.AllowItemEntry {
		return domain.NewError(domain.ErrInvalidCategory, id, "selected_product_ids")
	}
	return nil
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	if v == nil {
		return nil
	}
	selected := v.SelectedProductIDs
	if selected == nil {
		selected = []string{}
	}
	return &dto.VendorResponse{
		ID:                 v.ID,
		Name:               v.Name,
		Status:             v.Status,
		IsBlacklisted:      v.IsBlacklisted,
		SelectedProductIDs: selected,
		CanReceiveStock:    v.CanReceiveStock(),
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}
