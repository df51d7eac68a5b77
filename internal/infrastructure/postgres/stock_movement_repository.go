package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del diario de movimientos sobre PostgreSQL.
type StockMovementRepo struct {
	pool *pgxpool.Pool
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(pool *pgxpool.Pool) *StockMovementRepo {
	return &StockMovementRepo{pool: pool}
}

// Append agrega una fila al diario.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock_movements
			(id, product_id, location_id, location_kind, type, quantity, unit_cost, reference, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.ProductID, m.Location.ID, string(m.Location.Kind),
		m.Type, m.Quantity, m.UnitCost, m.Reference, m.Reason, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

const movementColumns = `id, product_id, location_id, location_kind, type, quantity, unit_cost, reference, reason, created_at, created_by`

// ListByProduct devuelve movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, productID, limit, offset)
}

// ListByReference devuelve movimientos ligados a una referencia (p. ej. un
// número de traslado), más antiguos primero.
func (r *StockMovementRepo) ListByReference(ctx context.Context, reference string) ([]entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE reference = $1
		ORDER BY created_at`
	return r.list(ctx, query, reference)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]entity.StockMovement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var out []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Location.ID, &kind,
			&m.Type, &m.Quantity, &m.UnitCost, &m.Reference, &m.Reason,
			&m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Location.Kind = entity.LocationKind(kind)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return out, nil
}
