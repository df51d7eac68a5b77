package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationKind distingue el tipo de ubicación física que mantiene stock.
type LocationKind string

const (
	LocationKindWarehouse LocationKind = "WAREHOUSE" // bodega
	LocationKindShop      LocationKind = "SHOP"      // tienda/punto de venta
)

// Valid indica si el kind es uno de los soportados.
func (k LocationKind) Valid() bool {
	return k == LocationKindWarehouse || k == LocationKindShop
}

// LocationRef identifica una ubicación con su tipo. Reemplaza el par de campos
// opcionales "warehouse_id o shop_id": un LocationRef vacío o con kind
// desconocido es inválido, no hay estado ambiguo posible.
type LocationRef struct {
	Kind LocationKind
	ID   string
}

// WarehouseRef construye la referencia a una bodega.
func WarehouseRef(id string) LocationRef {
	return LocationRef{Kind: LocationKindWarehouse, ID: id}
}

// ShopRef construye la referencia a una tienda.
func ShopRef(id string) LocationRef {
	return LocationRef{Kind: LocationKindShop, ID: id}
}

// Valid exige id no vacío y kind conocido.
func (l LocationRef) Valid() bool {
	return l.ID != "" && l.Kind.Valid()
}

// StockRecord es la entrada del libro de stock para un (producto, ubicación).
// Invariantes: Available >= 0 y Reserved >= 0 siempre; toda mutación pasa por
// el UpsertAtomic del repositorio, nunca por edición directa de campos.
type StockRecord struct {
	ProductID       string
	Location        LocationRef
	Available       int64
	Reserved        int64
	AverageUnitCost decimal.Decimal
	Version         int64 // control optimista (CAS); 0 = registro inexistente
	UpdatedAt       time.Time
}

// Total es la cantidad total; siempre derivada, nunca almacenada aparte.
func (r StockRecord) Total() int64 {
	return r.Available + r.Reserved
}

// Exists indica si el registro ya fue persistido alguna vez.
func (r StockRecord) Exists() bool { return r.Version > 0 }

// Retired indica un registro lógicamente retirado (sin unidades).
func (r StockRecord) Retired() bool { return r.Exists() && r.Total() == 0 }
