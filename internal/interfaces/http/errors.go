package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
)

var validate = validator.New()

type errorMapping struct {
	kind   error
	status int
	code   string
}

// errorTable traduce cada error de dominio a status HTTP y código estable.
var errorTable = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidParent, fiber.StatusBadRequest, "INVALID_PARENT"},
	{domain.ErrInvalidCategory, fiber.StatusBadRequest, "INVALID_CATEGORY"},
	{domain.ErrEmptyItemSet, fiber.StatusBadRequest, "EMPTY_ITEM_SET"},
	{domain.ErrDuplicateSelection, fiber.StatusBadRequest, "DUPLICATE_SELECTION"},
	{domain.ErrWarehouseMismatch, fiber.StatusBadRequest, "WAREHOUSE_MISMATCH"},
	{domain.ErrVendorNotEligible, fiber.StatusBadRequest, "VENDOR_NOT_ELIGIBLE"},
	{domain.ErrProductNotEligible, fiber.StatusBadRequest, "PRODUCT_NOT_ELIGIBLE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrDuplicateSerial, fiber.StatusConflict, "DUPLICATE_SERIAL"},
	{domain.ErrNonEmptyCategory, fiber.StatusConflict, "NON_EMPTY_CATEGORY"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrAlreadyCommitted, fiber.StatusConflict, "ALREADY_COMMITTED"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con el status y código del error de dominio; cualquier otro error es 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.kind) {
			entityID, field := domain.Details(err)
			return c.Status(m.status).JSON(dto.ErrorResponse{
				Code:     m.code,
				Message:  err.Error(),
				EntityID: entityID,
				Field:    field,
			})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: message})
}

// parseBody decodifica el cuerpo y valida las etiquetas validate del DTO.
// Si falla ya respondió 400; el handler solo debe devolver el error recibido.
func parseBody(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return checkStruct(c, in)
}

// parseQuery decodifica y valida parámetros de consulta.
func parseQuery(c *fiber.Ctx, in any) (bool, error) {
	if err := c.QueryParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return checkStruct(c, in)
}

func checkStruct(c *fiber.Ctx, in any) (bool, error) {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "campos inválidos: " + strings.Join(fields, ", "),
				Field:   verrs[0].Field(),
			})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}
