package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// FoldBalance aplica una lista de movimientos (en orden de commit) sobre un
// saldo de apertura y devuelve el saldo resultante. Es la definición de la
// reconciliación: la proyección stock_balances debe coincidir siempre con
// FoldBalance(0, todos los movimientos de la clave).
func FoldBalance(opening decimal.Decimal, movements []*entity.InventoryMovement) decimal.Decimal {
	balance := opening
	for _, m := range movements {
		balance = balance.Add(m.SignedQuantity())
	}
	return balance
}

// MovementsSummary acumula totales por tipo para el kardex de un producto.
type MovementsSummary struct {
	TotalAdditions    decimal.Decimal
	TotalIssues       decimal.Decimal
	TotalReturns      decimal.Decimal
	TotalTransfersIn  decimal.Decimal
	TotalTransfersOut decimal.Decimal
	MovementsCount    int
}

// Summarize calcula los totales por tipo de una lista de movimientos.
// Entradas = ADD + RETURN + TRANSFER_IN; salidas = ISSUE + TRANSFER_OUT.
func Summarize(movements []*entity.InventoryMovement) MovementsSummary {
	s := MovementsSummary{
		TotalAdditions:    decimal.Zero,
		TotalIssues:       decimal.Zero,
		TotalReturns:      decimal.Zero,
		TotalTransfersIn:  decimal.Zero,
		TotalTransfersOut: decimal.Zero,
	}
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeADD, entity.MovementTypeRETURN, entity.MovementTypeTRANSFERIN:
			s.TotalAdditions = s.TotalAdditions.Add(m.Quantity)
		case entity.MovementTypeISSUE, entity.MovementTypeTRANSFEROUT:
			s.TotalIssues = s.TotalIssues.Add(m.Quantity)
		}
		switch m.Type {
		case entity.MovementTypeRETURN:
			s.TotalReturns = s.TotalReturns.Add(m.Quantity)
		case entity.MovementTypeTRANSFERIN:
			s.TotalTransfersIn = s.TotalTransfersIn.Add(m.Quantity)
		case entity.MovementTypeTRANSFEROUT:
			s.TotalTransfersOut = s.TotalTransfersOut.Add(m.Quantity)
		}
		s.MovementsCount++
	}
	return s
}
