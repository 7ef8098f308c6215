package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
)

// CategoryHandler maneja el árbol de categorías (protegido).
type CategoryHandler struct {
	uc       *usecase.CategoryUseCase
	products *usecase.ProductUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, products *usecase.ProductUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, products: products}
}

// Create godoc
// @Summary      Crear categoría
// @Description  Agrega un nodo al árbol. Si el padre era hoja deja de admitir productos y se informan los productos que quedaron ligados a él.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Nombre y padre opcional"
// @Success      201   {object}  dto.CreateCategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Tree godoc
// @Summary      Árbol de categorías anidado
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryNode
// @Router       /api/categories/tree [get]
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	out, err := h.uc.Tree(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar el árbol
// @Description  Comprueba que solo las hojas admiten productos en todo el árbol almacenado.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/verify [get]
func (h *CategoryHandler) Verify(c *fiber.Ctx) error {
	if err := h.uc.Verify(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Rows godoc
// @Summary      Filas visibles del árbol
// @Description  Lista plana en preorden; solo se descienden los nodos cuyo id viene en expanded.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        expanded  query  string  false  "Ids expandidos separados por coma"
// @Success      200  {array}  dto.CategoryRowResponse
// @Router       /api/categories/rows [get]
func (h *CategoryHandler) Rows(c *fiber.Ctx) error {
	var expanded []string
	for _, id := range strings.Split(c.Query("expanded"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			expanded = append(expanded, id)
		}
	}
	out, err := h.uc.Rows(c.UserContext(), expanded)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "categoría no encontrada")
	}
	return c.JSON(out)
}

// Path godoc
// @Summary      Ruta desde la raíz
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryPathResponse
// @Router       /api/categories/{id}/path [get]
func (h *CategoryHandler) Path(c *fiber.Ctx) error {
	out, err := h.uc.Path(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Leaves godoc
// @Summary      Hojas descendientes
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/leaves [get]
func (h *CategoryHandler) Leaves(c *fiber.Ctx) error {
	out, err := h.uc.LeafDescendants(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Productos de la categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id                   path   string  true   "ID de la categoría"
// @Param        include_descendants  query  bool    false  "Incluir el subárbol"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/categories/{id}/products [get]
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	out, err := h.products.ListByCategory(c.UserContext(), c.Params("id"), c.QueryBool("include_descendants", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Renombrar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la categoría"
// @Param        body  body  dto.RenameCategoryRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenameCategoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Rename(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Sin cascade se rechaza si tiene hijos; con o sin cascade se rechaza si algún producto del subárbol la referencia.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID de la categoría"
// @Param        cascade  query  bool    false  "Eliminar también los descendientes"
// @Success      200  {object}  dto.DeleteCategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"), c.QueryBool("cascade", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
