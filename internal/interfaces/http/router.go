package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-engine/internal/application/stock"
	"github.com/invorya/stock-engine/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Mutations  *stock.MutationUseCase
	Allocator  *stock.AllocationUseCase
	Sale       *stock.SaleUseCase
	Queries    *stock.QueryUseCase
	TransferUC *transfer.UseCase
	ManifestUC *transfer.ManifestUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo el grupo /api exige Bearer Token;
// los ajustes y la aprobación de traslados exigen además rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Libro de stock (protegido)
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Mutations, deps.Allocator, deps.Sale, deps.Queries)
	stockGroup.Post("/purchases", stockHandler.ReceivePurchase)
	stockGroup.Post("/sales", stockHandler.CommitSale)
	stockGroup.Post("/allocate", stockHandler.Allocate)
	stockGroup.Post("/adjustments", RequireRole("admin"), stockHandler.AdjustQuantity)
	stockGroup.Post("/reservations", stockHandler.Reserve)
	stockGroup.Delete("/reservations", stockHandler.Release)
	stockGroup.Get("/products/:productId/movements", stockHandler.Movements)
	stockGroup.Get("/products/:productId/locations/:locationId", stockHandler.GetRecord)
	stockGroup.Get("/products/:productId", stockHandler.GetByProduct)
	stockGroup.Get("/locations/:locationId", stockHandler.GetByLocation)

	// Órdenes de traslado (protegido)
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.ManifestUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/summary", transferHandler.Summary)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/:number/approve", RequireRole("admin"), transferHandler.Approve)
	transfers.Post("/:number/items", transferHandler.TransferItem)
	transfers.Post("/:number/complete", transferHandler.Complete)
	transfers.Post("/:number/cancel", transferHandler.Cancel)
	transfers.Get("/:number/outstanding", transferHandler.Outstanding)
	transfers.Get("/:number/manifest", transferHandler.Manifest)
	transfers.Get("/:number", transferHandler.GetByNumber)
	transfers.Delete("/:number", transferHandler.Delete)
}
