package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-engine/internal/application/dto"
	"github.com/invorya/stock-engine/internal/application/transfer"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

// TransferHandler maneja las peticiones HTTP de órdenes de traslado (protegido).
type TransferHandler struct {
	uc       *transfer.UseCase
	manifest *transfer.ManifestUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase, manifest *transfer.ManifestUseCase) *TransferHandler {
	return &TransferHandler{uc: uc, manifest: manifest}
}

// Create godoc
// @Summary      Crear orden de traslado (queda Pending)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from, to, items"
// @Success      201   {object}  dto.TransferOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := transfer.CreateInput{From: in.From.Ref(), To: in.To.Ref()}
	for _, it := range in.Items {
		input.Items = append(input.Items, transfer.CreateItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
		})
	}
	order, err := h.uc.Create(c.Context(), GetUserID(c), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferOrderResponse(order))
}

// Approve godoc
// @Summary      Aprobar orden (Pending → InProgress, sin mover stock)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {object}  dto.TransferOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	order, err := h.uc.Approve(c.Context(), GetUserID(c), c.Params("number"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferOrderResponse(order))
}

// TransferItem godoc
// @Summary      Mover unidades de una línea (pierna origen + pierna destino)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Param        body    body  dto.TransferItemActionRequest  true  "product_id, quantity"
// @Success      200  {object}  dto.TransferOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number}/items [post]
func (h *TransferHandler) TransferItem(c *fiber.Ctx) error {
	var in dto.TransferItemActionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.TransferItem(c.Context(), GetUserID(c), c.Params("number"), in.ProductID, in.Quantity)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferOrderResponse(order))
}

// Complete godoc
// @Summary      Completar orden (todas las líneas movidas)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {object}  dto.TransferOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	order, err := h.uc.Complete(c.Context(), c.Params("number"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden (sin reversa de lo ya movido)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {object}  dto.TransferOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("number"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferOrderResponse(order))
}

// Delete godoc
// @Summary      Borrar orden Pendiente (ningún stock se movió)
// @Tags         transfers
// @Security     Bearer
// @Param        number  path  string  true  "Número de traslado"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("number")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByNumber godoc
// @Summary      Consultar orden por número
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {object}  dto.TransferOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number} [get]
func (h *TransferHandler) GetByNumber(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("number"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes por estado y/o ubicación
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "PENDING | IN_PROGRESS | COMPLETED | CANCELLED"
// @Param        location  query  string  false  "ID de ubicación (origen o destino)"
// @Success      200  {array}  dto.TransferOrderResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	orders, err := h.uc.List(c.Context(), repository.TransferOrderFilter{
		Status:     c.Query("status"),
		LocationID: c.Query("location"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(orders),
		"transfers": dto.NewTransferOrderResponses(orders),
	})
}

// Summary godoc
// @Summary      Agregado de órdenes por estado (conteo, unidades, valor)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TransferSummaryRow
// @Router       /api/transfers/summary [get]
func (h *TransferHandler) Summary(c *fiber.Ctx) error {
	rows, err := h.uc.Summary(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferSummary(rows))
}

// Outstanding godoc
// @Summary      Líneas con remanente pendiente (pasada de reconciliación)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {array}  dto.OutstandingItemResponse
// @Router       /api/transfers/{number}/outstanding [get]
func (h *TransferHandler) Outstanding(c *fiber.Ctx) error {
	items, err := h.uc.Outstanding(c.Context(), c.Params("number"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.OutstandingItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OutstandingItemResponse{
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			RemainingQuantity: it.RemainingQuantity,
		})
	}
	return c.JSON(out)
}

// Manifest godoc
// @Summary      Manifiesto de traslado en PDF (documento de picking)
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number}/manifest [get]
func (h *TransferHandler) Manifest(c *fiber.Ctx) error {
	pdfBytes, err := h.manifest.Generate(c.Context(), c.Params("number"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="manifiesto-`+c.Params("number")+`.pdf"`)
	return c.Send(pdfBytes)
}
