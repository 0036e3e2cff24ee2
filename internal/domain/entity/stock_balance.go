package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es la proyección mutable del saldo de un producto en una
// sucursal. Se crea perezosamente con el primer movimiento y nunca se borra.
// Invariante: CurrentQuantity >= 0 en todo momento (también como CHECK en BD).
type StockBalance struct {
	ProductID        string
	BranchID         string
	CurrentQuantity  decimal.Decimal
	ReservedQuantity decimal.Decimal
	MinQuantity      decimal.Decimal // umbral de stock bajo (0 = sin umbral)
	UpdatedAt        time.Time
}

// IsLow indica si el saldo está en o por debajo del umbral configurado.
func (s *StockBalance) IsLow() bool {
	return s.MinQuantity.GreaterThan(decimal.Zero) &&
		s.CurrentQuantity.LessThanOrEqual(s.MinQuantity)
}
