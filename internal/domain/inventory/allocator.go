package inventory

import (
	"sort"

	"github.com/invorya/stock-engine/internal/domain/entity"
)

// Allocation es la contribución de una ubicación dentro de un plan.
type Allocation struct {
	Location entity.LocationRef
	Quantity int64
}

// AllocationPlan es el resultado del motor de asignación: qué ubicaciones
// aportan cuánto para cubrir una cantidad requerida. Es transitorio, se
// produce fresco en cada llamada (el stock puede cambiar entre llamadas) y
// no reserva nada: la ventana entre planear y confirmar es una carrera
// conocida que resuelve el CAS del registro al confirmar.
type AllocationPlan struct {
	ProductID   string
	Required    int64
	Allocations []Allocation
	Satisfied   bool
}

// Allocated suma lo asignado por el plan.
func (p AllocationPlan) Allocated() int64 {
	var total int64
	for _, a := range p.Allocations {
		total += a.Quantity
	}
	return total
}

// BuildPlan arma un plan de asignación sobre una foto de los registros del
// producto. Algoritmo:
//
//  1. Se ignoran registros sin disponible.
//  2. Si hay ubicación preferida con stock, aporta primero min(disp, requerido).
//  3. El resto se toma en orden de disponible descendente (desempate por id de
//     ubicación ascendente, para determinismo) hasta cubrir o agotar.
//
// Un plan no satisfecho igual se devuelve: el caller decide si acepta parcial.
func BuildPlan(productID string, required int64, preferred string, records []entity.StockRecord) AllocationPlan {
	plan := AllocationPlan{ProductID: productID, Required: required}
	if required <= 0 {
		return plan
	}

	candidates := make([]entity.StockRecord, 0, len(records))
	for _, r := range records {
		if r.ProductID == productID && r.Available > 0 {
			candidates = append(candidates, r)
		}
	}

	remaining := required
	if preferred != "" {
		for i, r := range candidates {
			if r.Location.ID != preferred {
				continue
			}
			take := min64(r.Available, remaining)
			plan.Allocations = append(plan.Allocations, Allocation{Location: r.Location, Quantity: take})
			remaining -= take
			candidates = append(candidates[:i], candidates[i+1:]...)
			break
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Available != candidates[j].Available {
			return candidates[i].Available > candidates[j].Available
		}
		return candidates[i].Location.ID < candidates[j].Location.ID
	})

	for _, r := range candidates {
		if remaining == 0 {
			break
		}
		take := min64(r.Available, remaining)
		plan.Allocations = append(plan.Allocations, Allocation{Location: r.Location, Quantity: take})
		remaining -= take
	}

	plan.Satisfied = remaining == 0
	return plan
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
