package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

var _ repository.TransferOrderRepository = (*TransferOrderRepo)(nil)

// TransferOrderRepo guarda órdenes de traslado en memoria con control
// optimista por versión, igual que el adaptador PostgreSQL.
type TransferOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]entity.TransferOrder
}

// NewTransferOrderRepository construye el adaptador en memoria.
func NewTransferOrderRepository() *TransferOrderRepo {
	return &TransferOrderRepo{orders: make(map[string]entity.TransferOrder)}
}

// Create inserta la orden; el número debe ser único.
func (r *TransferOrderRepo) Create(_ context.Context, order *entity.TransferOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.TransferNumber]; ok {
		return domain.ErrInvalidInput
	}
	order.Version = 1
	r.orders[order.TransferNumber] = cloneOrder(*order)
	return nil
}

// GetByNumber devuelve una copia de la orden o ErrNotFound.
func (r *TransferOrderRepo) GetByNumber(_ context.Context, transferNumber string) (*entity.TransferOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[transferNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

// Update persiste la orden si la versión leída sigue vigente (CAS).
func (r *TransferOrderRepo) Update(_ context.Context, order *entity.TransferOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.orders[order.TransferNumber]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != order.Version {
		return domain.ErrConcurrencyConflict
	}
	order.Version++
	r.orders[order.TransferNumber] = cloneOrder(*order)
	return nil
}

// Delete elimina la orden.
func (r *TransferOrderRepo) Delete(_ context.Context, transferNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[transferNumber]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, transferNumber)
	return nil
}

// List devuelve las órdenes que pasan el filtro, más recientes primero.
func (r *TransferOrderRepo) List(_ context.Context, filter repository.TransferOrderFilter) ([]entity.TransferOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.TransferOrder
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.LocationID != "" && o.From.ID != filter.LocationID && o.To.ID != filter.LocationID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].TransferNumber > out[j].TransferNumber
		}
		return out[i].RequestDate.After(out[j].RequestDate)
	})
	out = page(out, filter.Limit, filter.Offset)
	return out, nil
}

// Summary agrega conteos, unidades y valor snapshot por estado.
func (r *TransferOrderRepo) Summary(_ context.Context) ([]repository.TransferStatusSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byStatus := make(map[string]*repository.TransferStatusSummary)
	for _, o := range r.orders {
		s, ok := byStatus[o.Status]
		if !ok {
			s = &repository.TransferStatusSummary{Status: o.Status, SnapshotValue: decimal.Zero}
			byStatus[o.Status] = s
		}
		s.Orders++
		s.UnitsRequested += o.TotalRequested()
		s.UnitsTransferred += o.TotalTransferred()
		s.SnapshotValue = s.SnapshotValue.Add(o.SnapshotValue())
	}
	out := make([]repository.TransferStatusSummary, 0, len(byStatus))
	for _, s := range byStatus {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func cloneOrder(o entity.TransferOrder) entity.TransferOrder {
	items := make([]entity.TransferOrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	if o.ApprovedDate != nil {
		d := *o.ApprovedDate
		o.ApprovedDate = &d
	}
	if o.CompletedDate != nil {
		d := *o.CompletedDate
		o.CompletedDate = &d
	}
	return o
}

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
