package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

var _ repository.TransferOrderRepository = (*TransferOrderRepo)(nil)

// TransferOrderRepo implementación de TransferOrderRepository sobre
// PostgreSQL. La orden se guarda completa: cabecera en columnas y líneas en
// JSONB, con control optimista por versión en Update.
type TransferOrderRepo struct {
	pool *pgxpool.Pool
}

// NewTransferOrderRepository construye el adaptador.
func NewTransferOrderRepository(pool *pgxpool.Pool) *TransferOrderRepo {
	return &TransferOrderRepo{pool: pool}
}

// itemRow es la forma JSON de una línea dentro de la columna items.
type itemRow struct {
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	SKU                 string          `json:"sku"`
	Quantity            int64           `json:"quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	TransferredQuantity int64           `json:"transferred_quantity"`
}

func marshalItems(items []entity.TransferOrderItem) ([]byte, error) {
	rows := make([]itemRow, len(items))
	for i, it := range items {
		rows[i] = itemRow(it)
	}
	return json.Marshal(rows)
}

func unmarshalItems(data []byte) ([]entity.TransferOrderItem, error) {
	var rows []itemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	items := make([]entity.TransferOrderItem, len(rows))
	for i, r := range rows {
		items[i] = entity.TransferOrderItem(r)
	}
	return items, nil
}

// Create inserta la orden con versión 1.
func (r *TransferOrderRepo) Create(ctx context.Context, order *entity.TransferOrder) error {
	items, err := marshalItems(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO transfer_orders
			(transfer_number, from_location_id, from_location_kind, to_location_id, to_location_kind,
			 items, status, requested_by, approved_by, approved_date, request_date, completed_date, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)`,
		order.TransferNumber,
		order.From.ID, string(order.From.Kind),
		order.To.ID, string(order.To.Kind),
		items, order.Status, order.RequestedBy, order.ApprovedBy, order.ApprovedDate,
		order.RequestDate, order.CompletedDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert transfer order: %w", err)
	}
	order.Version = 1
	return nil
}

const transferOrderColumns = `transfer_number, from_location_id, from_location_kind, to_location_id, to_location_kind,
	items, status, requested_by, approved_by, approved_date, request_date, completed_date, version`

func scanTransferOrder(row pgx.Row) (entity.TransferOrder, error) {
	var o entity.TransferOrder
	var fromKind, toKind string
	var items []byte
	err := row.Scan(
		&o.TransferNumber,
		&o.From.ID, &fromKind, &o.To.ID, &toKind,
		&items, &o.Status, &o.RequestedBy, &o.ApprovedBy, &o.ApprovedDate,
		&o.RequestDate, &o.CompletedDate, &o.Version,
	)
	if err != nil {
		return o, err
	}
	o.From.Kind = entity.LocationKind(fromKind)
	o.To.Kind = entity.LocationKind(toKind)
	o.Items, err = unmarshalItems(items)
	if err != nil {
		return o, fmt.Errorf("unmarshal items: %w", err)
	}
	return o, nil
}

// GetByNumber obtiene la orden o ErrNotFound.
func (r *TransferOrderRepo) GetByNumber(ctx context.Context, transferNumber string) (*entity.TransferOrder, error) {
	query := `SELECT ` + transferOrderColumns + ` FROM transfer_orders WHERE transfer_number = $1`
	o, err := scanTransferOrder(r.pool.QueryRow(ctx, query, transferNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get transfer order: %w", err)
	}
	return &o, nil
}

// Update persiste estado y progreso si la versión leída sigue vigente.
func (r *TransferOrderRepo) Update(ctx context.Context, order *entity.TransferOrder) error {
	items, err := marshalItems(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE transfer_orders
		SET items = $1, status = $2, approved_by = $3, approved_date = $4, completed_date = $5, version = version + 1
		WHERE transfer_number = $6 AND version = $7`,
		items, order.Status, order.ApprovedBy, order.ApprovedDate, order.CompletedDate,
		order.TransferNumber, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update transfer order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// La orden no existe o alguien la movió primero.
		if _, getErr := r.GetByNumber(ctx, order.TransferNumber); errors.Is(getErr, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.ErrConcurrencyConflict
	}
	order.Version++
	return nil
}

// Delete elimina físicamente la orden.
func (r *TransferOrderRepo) Delete(ctx context.Context, transferNumber string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transfer_orders WHERE transfer_number = $1`, transferNumber)
	if err != nil {
		return fmt.Errorf("delete transfer order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve órdenes filtradas por estado y/o ubicación, más recientes primero.
func (r *TransferOrderRepo) List(ctx context.Context, filter repository.TransferOrderFilter) ([]entity.TransferOrder, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		conds = append(conds, fmt.Sprintf("(from_location_id = $%d OR to_location_id = $%d)", len(args), len(args)))
	}
	query := `SELECT ` + transferOrderColumns + ` FROM transfer_orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY request_date DESC, transfer_number DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfer orders: %w", err)
	}
	defer rows.Close()
	var out []entity.TransferOrder
	for rows.Next() {
		o, err := scanTransferOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transfer orders: %w", err)
	}
	return out, nil
}

// Summary agrega órdenes, unidades y valor snapshot por estado.
func (r *TransferOrderRepo) Summary(ctx context.Context) ([]repository.TransferStatusSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.status,
		       COUNT(DISTINCT o.transfer_number),
		       COALESCE(SUM((i->>'quantity')::bigint), 0),
		       COALESCE(SUM((i->>'transferred_quantity')::bigint), 0),
		       COALESCE(SUM((i->>'quantity')::bigint * (i->>'unit_cost')::numeric), 0)
		FROM transfer_orders o
		LEFT JOIN LATERAL jsonb_array_elements(o.items) AS i ON true
		GROUP BY o.status
		ORDER BY o.status`)
	if err != nil {
		return nil, fmt.Errorf("transfer summary: %w", err)
	}
	defer rows.Close()
	var out []repository.TransferStatusSummary
	for rows.Next() {
		var s repository.TransferStatusSummary
		if err := rows.Scan(&s.Status, &s.Orders, &s.UnitsRequested, &s.UnitsTransferred, &s.SnapshotValue); err != nil {
			return nil, fmt.Errorf("scan transfer summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transfer summary: %w", err)
	}
	return out, nil
}
