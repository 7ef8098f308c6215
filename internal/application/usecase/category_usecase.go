package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/category"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

// CategoryUseCase administra el árbol de categorías. Cada mutación reconstruye el árbol
// desde el almacén dentro de la transacción, de modo que AllowItemEntry nunca diverge.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	tx         repository.TxRunner
	log        *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.CategoryRepository, tx repository.TxRunner, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, tx: tx, log: log.Named("categories")}
}

func loadTree(ctx context.Context, repo repository.CategoryRepository) (*category.Tree, error) {
	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return category.Load(list)
}

// Create agrega un nodo (raíz si ParentID viene vacío). Si el padre era hoja queda degradado
// y se informan los productos que seguían ligados a él.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CreateCategoryResponse, error) {
	var out *dto.CreateCategoryResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		tree, err := loadTree(ctx, repos.Categories)
		if err != nil {
			return err
		}
		node, demoted, err := tree.AddNode(uuid.New().String(), strings.TrimSpace(in.ParentID), in.Name, time.Now())
		if err != nil {
			return err
		}
		if err := repos.Categories.Create(ctx, node); err != nil {
			return err
		}
		out = &dto.CreateCategoryResponse{Category: toCategoryResponse(tree, node)}
		if demoted == nil {
			return nil
		}
		if err := repos.Categories.Update(ctx, demoted); err != nil {
			return err
		}
		parent := toCategoryResponse(tree, demoted)
		out.DemotedParent = &parent
		products, err := repos.Products.List(ctx)
		if err != nil {
			return err
		}
		out.StaleProductIDs = boundTo(products, demoted.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.DemotedParent != nil {
		uc.log.Warn().
			Str("category_id", out.DemotedParent.ID).
			Int("stale_products", len(out.StaleProductIDs)).
			Msg("categoría degradada a no-hoja")
	}
	return out, nil
}

// Rename cambia el nombre de un nodo.
func (uc *CategoryUseCase) Rename(ctx context.Context, id string, in dto.RenameCategoryRequest) (*dto.CategoryResponse, error) {
	var out *dto.CategoryResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		tree, err := loadTree(ctx, repos.Categories)
		if err != nil {
			return err
		}
		node, err := tree.Rename(id, in.Name, time.Now())
		if err != nil {
			return err
		}
		if err := repos.Categories.Update(ctx, node); err != nil {
			return err
		}
		resp := toCategoryResponse(tree, node)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un nodo. Sin cascade se rechaza si tiene hijos; con cascade elimina el subárbol.
// En ambos casos se rechaza si algún nodo afectado tiene productos ligados.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string, cascade bool) (*dto.DeleteCategoryResponse, error) {
	var out *dto.DeleteCategoryResponse
	err := uc.tx.Run(ctx, func(repos repository.Set) error {
		tree, err := loadTree(ctx, repos.Categories)
		if err != nil {
			return err
		}
		products, err := repos.Products.List(ctx)
		if err != nil {
			return err
		}
		bound := make(map[string]struct{})
		for _, p := range products {
			for _, g := range p.GroupIDs() {
				bound[g] = struct{}{}
			}
		}
		removed, promoted, err := tree.RemoveNode(id, cascade, func(cid string) bool {
			_, ok := bound[cid]
			return ok
		})
		if err != nil {
			return err
		}
		for _, cid := range removed {
			if err := repos.Categories.Delete(ctx, cid); err != nil {
				return err
			}
		}
		out = &dto.DeleteCategoryResponse{RemovedIDs: removed}
		if promoted != nil {
			promoted.UpdatedAt = time.Now()
			if err := repos.Categories.Update(ctx, promoted); err != nil {
				return err
			}
			parent := toCategoryResponse(tree, promoted)
			out.PromotedParent = &parent
		}
		return nil
	})
	if err != nil {
		uc.log.For(ctx).Info().Str("category_id", id).Bool("cascade", cascade).Err(err).Msg("eliminación de categoría rechazada")
		return nil, err
	}
	uc.log.For(ctx).Info().Str("category_id", id).Int("removed", len(out.RemovedIDs)).Msg("categoría eliminada")
	return out, nil
}

// GetByID obtiene una categoría con su ruta. (nil, nil) si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	node := tree.Node(id)
	if node == nil {
		return nil, nil
	}
	resp := toCategoryResponse(tree, node)
	return &resp, nil
}

// Tree devuelve el bosque anidado en orden de inserción.
func (uc *CategoryUseCase) Tree(ctx context.Context) ([]*dto.CategoryNode, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	return toCategoryTree(tree), nil
}

// Rows enumera las filas visibles de la vista de árbol para el conjunto desplegado que envía quien llama.
func (uc *CategoryUseCase) Rows(ctx context.Context, expanded []string) ([]dto.CategoryRowResponse, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	rows := tree.VisibleRows(category.NewExpansionSet(expanded...))
	out := make([]dto.CategoryRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CategoryRowResponse{
			ID:             r.Category.ID,
			Name:           r.Category.Name,
			Depth:          r.Depth,
			HasChildren:    r.HasChildren,
			Expanded:       r.Expanded,
			AllowItemEntry: r.Category.AllowItemEntry,
		})
	}
	return out, nil
}

// Path resuelve la ruta de nombres. Un id desconocido devuelve ruta vacía, no error.
func (uc *CategoryUseCase) Path(ctx context.Context, id string) (*dto.CategoryPathResponse, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryPathResponse{ID: id, Path: tree.ResolvePath(id)}, nil
}

// LeafDescendants devuelve las hojas bajo el nodo (el mismo nodo si es hoja).
func (uc *CategoryUseCase) LeafDescendants(ctx context.Context, id string) ([]string, error) {
	tree, err := loadTree(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	if !tree.Exists(id) {
		return nil, domain.NewError(domain.ErrNotFound, id, "id")
	}
	return tree.LeafDescendants(id), nil
}

// Verify comprueba que el AllowItemEntry almacenado de cada categoría coincide con su
// condición de hoja. Falla con ErrConflict en la primera categoría desalineada.
func (uc *CategoryUseCase) Verify(ctx context.Context) error {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return err
	}
	tree, err := category.Load(list)
	if err != nil {
		return err
	}
	for _, c := range list {
		if c != nil && c.AllowItemEntry != tree.IsLeaf(c.ID) {
			return domain.NewError(domain.ErrConflict, c.ID, "allowItemEntry").
				WithDetail(fmt.Sprintf("almacenado=%t hoja=%t", c.AllowItemEntry, tree.IsLeaf(c.ID)))
		}
	}
	return tree.Verify()
}

// boundTo devuelve los productos ligados a la categoría.
func boundTo(products []*entity.Product, categoryID string) []string {
	var ids []string
	for _, p := range products {
		for _, g := range p.GroupIDs() {
			if g == categoryID {
				ids = append(ids, p.ID)
				break
			}
		}
	}
	return ids
}

func toCategoryResponse(tree *category.Tree, c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		ParentID:       c.ParentID,
		AllowItemEntry: c.AllowItemEntry,
		Position:       c.Position,
		Path:           tree.ResolvePath(c.ID),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// toCategoryTree arma el anidamiento en un solo recorrido en preorden:
// stack[d] es el último nodo visto a profundidad d, que es el padre de los nodos en d+1.
func toCategoryTree(tree *category.Tree) []*dto.CategoryNode {
	roots := []*dto.CategoryNode{}
	var stack []*dto.CategoryNode
	tree.Walk(func(n entity.Category, depth int) bool {
		node := &dto.CategoryNode{
			ID:             n.ID,
			Name:           n.Name,
			ParentID:       n.ParentID,
			AllowItemEntry: n.AllowItemEntry,
			Children:       []*dto.CategoryNode{},
		}
		if depth == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack[:depth], node)
		return true
	})
	return roots
}
