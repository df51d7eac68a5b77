package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/inventory"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// dbconn es el subconjunto de *pgxpool.Pool que usa el adaptador. Permite
// sustituir la conexión en tests.
type dbconn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ dbconn = (*pgxpool.Pool)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL.
// La escritura usa CAS optimista sobre la columna version: leer, aplicar el
// mutator en memoria y escribir con `WHERE version = $leída`. Si otro escritor
// ganó la ronda se reintenta con una lectura fresca, hasta maxRetries.
type StockRecordRepo struct {
	db         dbconn
	maxRetries int
}

// NewStockRecordRepository construye el adaptador. maxRetries <= 0 usa 3.
func NewStockRecordRepository(pool *pgxpool.Pool, maxRetries int) *StockRecordRepo {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &StockRecordRepo{db: pool, maxRetries: maxRetries}
}

const stockRecordColumns = `product_id, location_id, location_kind, available, reserved, average_unit_cost, version, updated_at`

func scanStockRecord(row pgx.Row) (entity.StockRecord, error) {
	var rec entity.StockRecord
	var kind string
	err := row.Scan(
		&rec.ProductID, &rec.Location.ID, &kind,
		&rec.Available, &rec.Reserved, &rec.AverageUnitCost,
		&rec.Version, &rec.UpdatedAt,
	)
	rec.Location.Kind = entity.LocationKind(kind)
	return rec, err
}

// Get obtiene el registro de un producto en una ubicación.
func (r *StockRecordRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1 AND location_id = $2`
	rec, err := scanStockRecord(r.db.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &rec, nil
}

// ListByProduct devuelve todos los registros del producto, por ubicación ascendente.
func (r *StockRecordRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1
		ORDER BY location_id`
	return r.list(ctx, query, productID)
}

// ListByLocation devuelve todos los registros de la ubicación, por producto ascendente.
func (r *StockRecordRepo) ListByLocation(ctx context.Context, locationID string) ([]entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE location_id = $1
		ORDER BY product_id`
	return r.list(ctx, query, locationID)
}

func (r *StockRecordRepo) list(ctx context.Context, query string, arg any) ([]entity.StockRecord, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	var out []entity.StockRecord
	for rows.Next() {
		rec, err := scanStockRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	return out, nil
}

// UpsertAtomic aplica fn bajo CAS. El error del mutator se propaga de
// inmediato (un estado rechazado no es contención); solo la invalidación de
// la lectura optimista consume reintentos.
func (r *StockRecordRepo) UpsertAtomic(ctx context.Context, productID string, loc entity.LocationRef, fn inventory.StockMutator) (*entity.StockRecord, error) {
	if productID == "" || !loc.Valid() {
		return nil, domain.ErrInvalidInput
	}

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		cur, err := r.Get(ctx, productID, loc.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if cur == nil {
			// Creación perezosa: el mutator parte de un registro en cero.
			cur = &entity.StockRecord{ProductID: productID, Location: loc}
		}

		next, err := fn(*cur)
		if err != nil {
			return nil, err
		}
		if next.Available < 0 || next.Reserved < 0 {
			return nil, domain.ErrInvalidAdjustment
		}
		next.ProductID = productID
		next.Location = loc

		if cur.Version == 0 {
			ok, err := r.insert(ctx, &next)
			if err != nil {
				return nil, err
			}
			if ok {
				return r.Get(ctx, productID, loc.ID)
			}
			// Alguien insertó primero: reintentar sobre el registro nuevo.
			continue
		}

		tag, err := r.db.Exec(ctx, `
			UPDATE stock_records
			SET available = $1, reserved = $2, average_unit_cost = $3,
			    version = version + 1, updated_at = now()
			WHERE product_id = $4 AND location_id = $5 AND version = $6`,
			next.Available, next.Reserved, next.AverageUnitCost,
			productID, loc.ID, cur.Version,
		)
		if err != nil {
			if isCheckViolation(err) {
				return nil, domain.ErrInvalidAdjustment
			}
			return nil, fmt.Errorf("update stock record: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return r.Get(ctx, productID, loc.ID)
		}
		// Otro escritor invalidó la versión leída; ronda siguiente.
	}
	return nil, domain.ErrConcurrencyConflict
}

func (r *StockRecordRepo) insert(ctx context.Context, rec *entity.StockRecord) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO stock_records (product_id, location_id, location_kind, available, reserved, average_unit_cost, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`,
		rec.ProductID, rec.Location.ID, string(rec.Location.Kind),
		rec.Available, rec.Reserved, rec.AverageUnitCost,
	)
	if err != nil {
		if isCheckViolation(err) {
			return false, domain.ErrInvalidAdjustment
		}
		return false, fmt.Errorf("insert stock record: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
