package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-engine/internal/application/dto"
	"github.com/invorya/stock-engine/internal/application/stock"
	"github.com/invorya/stock-engine/internal/domain"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido).
type StockHandler struct {
	mutations *stock.MutationUseCase
	allocator *stock.AllocationUseCase
	sale      *stock.SaleUseCase
	queries   *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(mutations *stock.MutationUseCase, allocator *stock.AllocationUseCase, sale *stock.SaleUseCase, queries *stock.QueryUseCase) *StockHandler {
	return &StockHandler{mutations: mutations, allocator: allocator, sale: sale, queries: queries}
}

// ReceivePurchase godoc
// @Summary      Registrar entrada de compra
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceivePurchaseRequest  true  "product_id, location, quantity, unit_cost"
// @Success      201   {object}  dto.StockRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/purchases [post]
func (h *StockHandler) ReceivePurchase(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.mutations.ReceivePurchase(c.Context(), GetUserID(c), in.ProductID, in.Location.Ref(), in.Quantity, in.UnitCost, in.Reference)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockRecordResponse(*rec))
}

// CommitSale godoc
// @Summary      Confirmar una venta (asignación + confirmación por ubicación)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitSaleRequest  true  "product_id, quantity, preferred_location_id opcional"
// @Success      200   {object}  dto.AllocationPlanResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/sales [post]
func (h *StockHandler) CommitSale(c *fiber.Ctx) error {
	var in dto.CommitSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	plan, err := h.sale.CommitSale(c.Context(), GetUserID(c), in.ProductID, in.Quantity, in.PreferredLocationID, in.Reference)
	if err != nil {
		var partial *domain.PartialSaleError
		if errors.As(err, &partial) {
			resp := dto.PartialSaleResponse{
				Code:             "PARTIAL_SALE",
				Message:          "venta parcialmente confirmada; compensar las ubicaciones listadas",
				ProductID:        partial.ProductID,
				FailedLocationID: partial.FailedLocationID,
			}
			for _, leg := range partial.Committed {
				resp.Committed = append(resp.Committed, dto.CommittedLegDTO{LocationID: leg.LocationID, Quantity: leg.Quantity})
			}
			return c.Status(fiber.StatusConflict).JSON(resp)
		}
		return domainError(c, err)
	}
	return c.JSON(dto.NewAllocationPlanResponse(plan))
}

// Allocate godoc
// @Summary      Simular un plan de asignación (solo lectura)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "product_id, quantity"
// @Success      200   {object}  dto.AllocationPlanResponse
// @Router       /api/stock/allocate [post]
func (h *StockHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	plan, err := h.allocator.Allocate(c.Context(), in.ProductID, in.Quantity, in.PreferredLocationID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewAllocationPlanResponse(plan))
}

// AdjustQuantity godoc
// @Summary      Ajuste de reconciliación (delta con signo, motivo obligatorio)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustQuantityRequest  true  "product_id, location, delta, reason"
// @Success      200   {object}  dto.StockRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) AdjustQuantity(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.mutations.AdjustQuantity(c.Context(), GetUserID(c), in.ProductID, in.Location.Ref(), in.Delta, in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponse(*rec))
}

// Reserve godoc
// @Summary      Reservar unidades (disponible → reservado)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location, quantity"
// @Success      200   {object}  dto.StockRecordResponse
// @Router       /api/stock/reservations [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.mutations.Reserve(c.Context(), GetUserID(c), in.ProductID, in.Location.Ref(), in.Quantity, in.Reference)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponse(*rec))
}

// Release godoc
// @Summary      Liberar unidades reservadas (reservado → disponible)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location, quantity"
// @Success      200   {object}  dto.StockRecordResponse
// @Router       /api/stock/reservations [delete]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.mutations.Release(c.Context(), GetUserID(c), in.ProductID, in.Location.Ref(), in.Quantity, in.Reference)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponse(*rec))
}

// GetByProduct godoc
// @Summary      Stock de un producto en todas sus ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/stock/products/{productId} [get]
func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	records, err := h.queries.ListByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponses(records))
}

// GetByLocation godoc
// @Summary      Stock de todos los productos de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/stock/locations/{locationId} [get]
func (h *StockHandler) GetByLocation(c *fiber.Ctx) error {
	records, err := h.queries.ListByLocation(c.Context(), c.Params("locationId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponses(records))
}

// Movements godoc
// @Summary      Diario de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Máximo de filas (default 20)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/products/{productId}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movements, err := h.queries.Movements(c.Context(), c.Params("productId"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockMovementResponses(movements))
}

// GetRecord godoc
// @Summary      Registro de stock de un producto en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId   path  string  true  "ID del producto"
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId}/locations/{locationId} [get]
func (h *StockHandler) GetRecord(c *fiber.Ctx) error {
	rec, err := h.queries.Get(c.Context(), c.Params("productId"), c.Params("locationId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponse(*rec))
}
