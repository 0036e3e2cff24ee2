package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
type Product struct {
	ID        string
	SKU       string
	Name      string
	UnitPrice decimal.Decimal // precio de lista; snapshot opcional en movimientos
	IsActive  bool
	CreatedAt time.Time
}
