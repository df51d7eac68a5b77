package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-engine/internal/application/dto"
	"github.com/invorya/stock-engine/internal/domain"
)

// domainError traduce los errores tipados del motor a respuestas HTTP.
// PartialSaleError se maneja aparte en el handler de ventas porque su cuerpo
// lleva las piernas ya confirmadas.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidAdjustment):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ADJUSTMENT", Message: "el ajuste dejaría el stock en negativo"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "conflicto de concurrencia, reintente la operación"})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "transición de estado inválida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
