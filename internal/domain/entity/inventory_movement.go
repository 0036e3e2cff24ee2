package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeADD         = "ADD"          // entrada por compra/carga inicial
	MovementTypeISSUE       = "ISSUE"        // salida por orden de despacho
	MovementTypeRETURN      = "RETURN"       // devolución al stock
	MovementTypeTRANSFEROUT = "TRANSFER_OUT" // salida por traslado entre sucursales
	MovementTypeTRANSFERIN  = "TRANSFER_IN"  // entrada por traslado entre sucursales
	MovementTypeADJUSTMENT  = "ADJUSTMENT"   // ajuste de inventario (delta con signo)
)

// InventoryMovement es un hecho inmutable: un cambio de cantidad para un
// producto en una sucursal. Nunca se actualiza ni se borra; el saldo actual
// es una proyección reconciliable contra la suma con signo de estos registros.
type InventoryMovement struct {
	ID                int64
	ProductID         string
	BranchID          string
	Type              string
	Quantity          decimal.Decimal // positiva, salvo ADJUSTMENT que guarda el delta con signo
	UnitPriceSnapshot *decimal.Decimal
	TransferID        *string // uuid compartido por el par TRANSFER_OUT/TRANSFER_IN
	Ref               *Reference
	Notes             string
	CreatedBy         string
	CreatedAt         time.Time
}

// SignedQuantity devuelve el impacto con signo del movimiento sobre el saldo.
func (m *InventoryMovement) SignedQuantity() decimal.Decimal {
	switch m.Type {
	case MovementTypeADD, MovementTypeRETURN, MovementTypeTRANSFERIN:
		return m.Quantity
	case MovementTypeISSUE, MovementTypeTRANSFEROUT:
		return m.Quantity.Neg()
	case MovementTypeADJUSTMENT:
		return m.Quantity
	}
	return decimal.Zero
}

// IsInbound indica si el movimiento suma al saldo.
func (m *InventoryMovement) IsInbound() bool {
	return m.SignedQuantity().GreaterThan(decimal.Zero)
}
