package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry es un asiento inmutable de partida doble sobre un cliente.
// Exactamente uno de Debit/Credit es positivo y el otro cero.
// Saldo del cliente = Σ(debe) - Σ(haber).
type LedgerEntry struct {
	ID          int64
	CustomerID  string
	EntryDate   time.Time // solo fecha; el desempate dentro del día es el ID
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Ref         *Reference
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}

// Amount devuelve el impacto con signo del asiento sobre el saldo.
func (e *LedgerEntry) Amount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}
