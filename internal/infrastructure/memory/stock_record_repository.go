// Package memory implementa los puertos de persistencia del motor sobre mapas
// en proceso. Comparte la semántica de los adaptadores PostgreSQL (creación
// perezosa, versión por registro, serialización por (producto, ubicación));
// se usa en tests y para correr el servicio sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/inventory"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

type recordKey struct {
	productID  string
	locationID string
}

// StockRecordRepo guarda los registros de stock en memoria.
type StockRecordRepo struct {
	mu      sync.RWMutex
	records map[recordKey]entity.StockRecord
	now     func() time.Time
}

// NewStockRecordRepository construye el adaptador en memoria.
func NewStockRecordRepository() *StockRecordRepo {
	return &StockRecordRepo{
		records: make(map[recordKey]entity.StockRecord),
		now:     time.Now,
	}
}

// Get devuelve el registro o ErrNotFound.
func (r *StockRecordRepo) Get(_ context.Context, productID, locationID string) (*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[recordKey{productID, locationID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// ListByProduct devuelve los registros del producto ordenados por ubicación.
func (r *StockRecordRepo) ListByProduct(_ context.Context, productID string) ([]entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.StockRecord
	for k, rec := range r.records {
		if k.productID == productID {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// ListByLocation devuelve los registros de la ubicación ordenados por producto.
func (r *StockRecordRepo) ListByLocation(_ context.Context, locationID string) ([]entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.StockRecord
	for k, rec := range r.records {
		if k.locationID == locationID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// UpsertAtomic aplica fn bajo el lock del mapa: equivale al CAS del adaptador
// PostgreSQL porque ningún otro escritor puede intercalarse entre la lectura
// y la escritura del registro.
func (r *StockRecordRepo) UpsertAtomic(_ context.Context, productID string, loc entity.LocationRef, fn inventory.StockMutator) (*entity.StockRecord, error) {
	if productID == "" || !loc.Valid() {
		return nil, domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{productID, loc.ID}
	cur, ok := r.records[key]
	if !ok {
		// Creación perezosa: el mutator recibe un registro en cero.
		cur = entity.StockRecord{ProductID: productID, Location: loc}
	}
	next, err := fn(cur)
	if err != nil {
		return nil, err
	}
	if next.Available < 0 || next.Reserved < 0 {
		return nil, domain.ErrInvalidAdjustment
	}
	next.ProductID = productID
	next.Location = loc
	next.Version = cur.Version + 1
	next.UpdatedAt = r.now()
	r.records[key] = next
	out := next
	return &out, nil
}

func sortRecords(recs []entity.StockRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Location.ID < recs[j].Location.ID })
}
