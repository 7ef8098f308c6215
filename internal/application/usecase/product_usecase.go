package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/category"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/domain/stock"
	"github.com/jhoicas/inventario-distribucion/internal/domain/vendor"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

const (
	warnDegenerate = "identificador único sin serial, MAC ni garantía: los ítems solo se distinguen por id"
	warnStale      = "la categoría ya no es hoja o no existe: reasigne el producto"
)

// ProductUseCase casos de uso del catálogo. Un producto solo se liga a categorías hoja;
// los flags de seguimiento quedan congelados cuando el producto tiene stock.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tx         repository.TxRunner
	log        *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tx repository.TxRunner,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories, tx: tx, log: log.Named("products")}
}

// Create crea un producto. Falla con ErrInvalidCategory si algún grupo no es hoja y con
// ErrDuplicate si el SKU ya existe. Si SKU viene vacío se deriva del nombre.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		tree, err := loadTree(ctx, repos.Categories)
		if err != nil {
			return err
		}
		groups, err := leafGroups(tree, in.ProductGroupID)
		if err != nil {
			return err
		}
		sku, err := normalizeSKU(in.SKU, in.Name)
		if err != nil {
			return err
		}
		catalog, err := repos.Products.List(ctx)
		if err != nil {
			return err
		}
		if err := checkSKU(catalog, sku, ""); err != nil {
			return err
		}
		now := time.Now()
		p := &entity.Product{
			ID:                  uuid.New().String(),
			Name:                strings.TrimSpace(in.Name),
			Unit:                strings.TrimSpace(in.Unit),
			ProductGroupID:      strings.Join(groups, ","),
			SKU:                 sku,
			HasUniqueIdentifier: in.HasUniqueIdentifier,
			HasSerialNo:         in.HasSerialNo,
			HasMacAddress:       in.HasMacAddress,
			HasWarranty:         in.HasWarranty,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		p.NormalizeFlags()
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		resp := toProductResponse(tree, p)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(tree, p)
	return &resp, nil
}

// Update actualiza un producto. Reasignar categoría exige hoja; cambiar flags de seguimiento
// con stock registrado falla con ErrConflict.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil || p == nil {
			return err
		}
		tree, err := loadTree(ctx, repos.Categories)
		if err != nil {
			return err
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Unit != nil {
			p.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.ProductGroupID != nil {
			groups, err := leafGroups(tree, *in.ProductGroupID)
			if err != nil {
				return err
			}
			p.ProductGroupID = strings.Join(groups, ",")
		}
		if in.SKU != nil {
			sku, err := normalizeSKU(*in.SKU, p.Name)
			if err != nil {
				return err
			}
			catalog, err := repos.Products.List(ctx)
			if err != nil {
				return err
			}
			if err := checkSKU(catalog, sku, p.ID); err != nil {
				return err
			}
			p.SKU = sku
		}
		before := *p
		applyFlags(p, in)
		if trackingChanged(&before, p) {
			entries, err := repos.StockEntries.List(ctx)
			if err != nil {
				return err
			}
			if hasStock(entries, p.ID) {
				return domain.NewError(domain.ErrConflict, p.ID, "has_unique_identifier").
					WithDetail("el producto ya tiene stock; los flags de seguimiento no se pueden cambiar")
			}
		}
		p.UpdatedAt = time.Now()
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		resp := toProductResponse(tree, p)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un producto. Se rechaza con ErrConflict si alguna entrada o traslado lo referencia.
// Las selecciones de proveedores que lo nombran se depuran en la misma transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	pruned := 0
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewError(domain.ErrNotFound, id, "id")
		}
		entries, err := repos.StockEntries.List(ctx)
		if err != nil {
			return err
		}
		if hasStock(entries, id) {
			return domain.NewError(domain.ErrConflict, id, "stock_entries").WithDetail("el producto tiene entradas de stock")
		}
		transfers, err := repos.Transfers.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range transfers {
			if t.ProductID == id {
				return domain.NewError(domain.ErrConflict, id, "transfers").WithDetail("el producto tiene traslados")
			}
		}
		vendors, err := repos.Vendors.List(ctx)
		if err != nil {
			return err
		}
		for _, v := range vendors {
			if vendor.RemoveSelection(v, id) {
				v.UpdatedAt = time.Now()
				if err := repos.Vendors.Update(ctx, v); err != nil {
					return err
				}
				pruned++
			}
		}
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.For(ctx).Info().Str("product_id", id).Int("vendor_selections_pruned", pruned).Msg("producto eliminado")
	return nil
}

// List lista productos. Con CategoryID filtra por categoría (y su subárbol si IncludeDescendants).
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	var items []dto.ProductResponse
	var err error
	if in.CategoryID != "" {
		items, err = uc.ListByCategory(ctx, in.CategoryID, in.IncludeDescendants)
	} else {
		items, err = uc.all(ctx)
	}
	if err != nil {
		return nil, err
	}
	page, meta := dto.Paginate(items, in.PageRequest)
	return &dto.ProductListResponse{Items: page, Page: meta}, nil
}

func (uc *ProductUseCase) all(ctx context.Context) ([]dto.ProductResponse, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(tree, catalog), nil
}

// ListByCategory devuelve los productos ligados a la categoría. Con includeDescendants
// recorre el subárbol y acepta cualquier hoja descendiente.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, categoryID string, includeDescendants bool) ([]dto.ProductResponse, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	if !tree.Exists(categoryID) {
		return nil, domain.NewError(domain.ErrNotFound, categoryID, "category_id")
	}
	scope := map[string]struct{}{categoryID: {}}
	if includeDescendants {
		for _, id := range tree.LeafDescendants(categoryID) {
			scope[id] = struct{}{}
		}
	}
	catalog, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(tree, inScope(catalog, scope)), nil
}

// StaleBindings lista productos ligados a categorías que dejaron de ser hoja o ya no existen.
func (uc *ProductUseCase) StaleBindings(ctx context.Context) ([]dto.StaleBindingResponse, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.StaleBindingResponse{}
	for _, p := range catalog {
		for _, g := range p.GroupIDs() {
			reason := ""
			switch {
			case !tree.Exists(g):
				reason = "categoría inexistente"
			case !tree.IsLeaf(g):
				reason = "categoría con subcategorías"
			default:
				continue
			}
			out = append(out, dto.StaleBindingResponse{
				ProductID:    p.ID,
				ProductName:  p.Name,
				CategoryID:   g,
				CategoryPath: tree.ResolvePath(g),
				Reason:       reason,
			})
		}
	}
	return out, nil
}

// ResolveCategoryPath devuelve la ruta de la categoría principal del producto.
// Vacía si la categoría no existe.
func (uc *ProductUseCase) ResolveCategoryPath(ctx context.Context, productID string) ([]string, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.ErrNotFound, productID, "id")
	}
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	return tree.ResolvePath(p.PrimaryGroupID()), nil
}

// leafGroups normaliza la lista de grupos y exige que cada uno sea una hoja existente.
func leafGroups(tree *category.Tree, raw string) ([]string, error) {
	groups := entity.SplitIDs(raw)
	if len(groups) == 0 {
		return nil, domain.NewError(domain.ErrInvalidCategory, "", "product_group_id").WithDetail("requerido")
	}
	for _, g := range groups {
		if !tree.Exists(g) {
			return nil, domain.NewError(domain.ErrInvalidCategory, g, "product_group_id").WithDetail("no existe")
		}
		if !tree.IsLeaf(g) {
			return nil, domain.NewError(domain.ErrInvalidCategory, g, "product_group_id")
		}
	}
	return groups, nil
}

func normalizeSKU(sku, name string) (string, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		sku = slug.Make(name)
	}
	if sku == "" {
		return "", domain.NewError(domain.ErrInvalidInput, "", "sku")
	}
	return sku, nil
}

func checkSKU(catalog []*entity.Product, sku, selfID string) error {
	for _, p := range catalog {
		if p.ID != selfID && strings.EqualFold(p.SKU, sku) {
			return domain.NewError(domain.ErrDuplicate, p.ID, "sku").WithDetail(sku)
		}
	}
	return nil
}

func applyFlags(p *entity.Product, in dto.UpdateProductRequest) {
	if in.HasUniqueIdentifier != nil {
		p.HasUniqueIdentifier = *in.HasUniqueIdentifier
	}
	if in.HasSerialNo != nil {
		p.HasSerialNo = *in.HasSerialNo
	}
	if in.HasMacAddress != nil {
		p.HasMacAddress = *in.HasMacAddress
	}
	if in.HasWarranty != nil {
		p.HasWarranty = *in.HasWarranty
	}
	p.NormalizeFlags()
}

func trackingChanged(a, b *entity.Product) bool {
	return a.HasUniqueIdentifier != b.HasUniqueIdentifier ||
		a.HasSerialNo != b.HasSerialNo ||
		a.HasMacAddress != b.HasMacAddress ||
		a.HasWarranty != b.HasWarranty
}

func hasStock(entries []*entity.StockEntry, productID string) bool {
	for _, e := range entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

func inScope(catalog []*entity.Product, scope map[string]struct{}) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range catalog {
		for _, g := range p.GroupIDs() {
			if _, ok := scope[g]; ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func toProductResponses(tree *category.Tree, list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(tree, p))
	}
	return out
}

func toProductResponse(tree *category.Tree, p *entity.Product) dto.ProductResponse {
	fields := stock.Fields(p)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	var warnings []string
	if p.DegenerateTracking() {
		warnings = append(warnings, warnDegenerate)
	}
	for _, g := range p.GroupIDs() {
		if !tree.IsLeaf(g) {
			warnings = append(warnings, warnStale)
			break
		}
	}
	return dto.ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Unit:                p.Unit,
		ProductGroupID:      p.ProductGroupID,
		SKU:                 p.SKU,
		HasUniqueIdentifier: p.HasUniqueIdentifier,
		HasSerialNo:         p.HasSerialNo,
		HasMacAddress:       p.HasMacAddress,
		HasWarranty:         p.HasWarranty,
		CategoryPath:        tree.ResolvePath(p.PrimaryGroupID()),
		Fields:              names,
		Warnings:            warnings,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
