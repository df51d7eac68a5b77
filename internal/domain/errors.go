package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidAdjustment      = errors.New("el ajuste dejaría el stock en negativo")
	ErrConcurrencyConflict    = errors.New("conflicto de concurrencia: reintentos agotados")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrPartialSaleFailure     = errors.New("venta parcialmente confirmada")
)

// CommittedLeg describe una ubicación cuya salida de stock ya quedó aplicada
// cuando una venta multi-ubicación falló a mitad de camino.
type CommittedLeg struct {
	LocationID string
	Quantity   int64
}

// PartialSaleError se devuelve cuando una venta multi-ubicación falla después
// de confirmar al menos una ubicación. Las salidas aplicadas NO se revierten
// automáticamente; el caller debe compensar (ver Committed).
type PartialSaleError struct {
	ProductID        string
	FailedLocationID string
	Committed        []CommittedLeg
	Cause            error
}

func (e *PartialSaleError) Error() string {
	return fmt.Sprintf("venta parcial del producto %s: %d ubicación(es) confirmada(s), falló %s: %v",
		e.ProductID, len(e.Committed), e.FailedLocationID, e.Cause)
}

// Unwrap permite errors.Is(err, ErrPartialSaleFailure).
func (e *PartialSaleError) Unwrap() error { return ErrPartialSaleFailure }
