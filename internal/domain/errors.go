package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
// Todos los rechazos de negocio son distinguibles con errors.Is; los que
// necesitan detalle estructurado llevan además un tipo propio (errors.As).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrBranchNotFound      = errors.New("sucursal no encontrada")
	ErrCustomerNotFound    = errors.New("cliente no encontrado")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInvalidReference    = errors.New("referencia al documento origen inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrSameBranchTransfer  = errors.New("no se puede transferir a la misma sucursal")
	ErrSequenceExhausted   = errors.New("secuencia agotada")
	ErrSequenceNotFound    = errors.New("secuencia no configurada")
	ErrInvalidLedgerEntry  = errors.New("asiento inválido: exactamente uno de debe/haber debe ser positivo")
	ErrNoOpCorrection      = errors.New("el saldo actual ya coincide con el saldo objetivo")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// clave afectada, disponible y solicitado, suficiente para el mensaje al usuario.
type InsufficientStockError struct {
	ProductID string
	BranchID  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en sucursal %s: disponible %s, solicitado %s",
		e.ProductID, e.BranchID, e.Available.String(), e.Requested.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortage devuelve el faltante (solicitado - disponible).
func (e *InsufficientStockError) Shortage() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// SequenceExhaustedError detalla el agotamiento de una secuencia.
type SequenceExhaustedError struct {
	EntityType string
	Year       int
	MaxValue   int64
}

func (e *SequenceExhaustedError) Error() string {
	return fmt.Sprintf("secuencia agotada para %s en %d: máximo %d", e.EntityType, e.Year, e.MaxValue)
}

func (e *SequenceExhaustedError) Unwrap() error { return ErrSequenceExhausted }
