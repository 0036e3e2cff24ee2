package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// CustomerLedgerSummary agrega los totales del libro por cliente para el
// reporte de saldos (una fila por cliente activo, con o sin asientos).
type CustomerLedgerSummary struct {
	CustomerID     string
	Code           string
	Name           string
	Phone          string
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	EntryCount     int
	LastEntryDate  *time.Time
	LastActivityAt *time.Time
}

// LedgerEntryRepository define el puerto de persistencia para los asientos
// del libro de clientes (append-only).
type LedgerEntryRepository interface {
	// Create inserta el asiento y asigna ID y CreatedAt.
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	// SumDebitCredit devuelve Σdebe y Σhaber del cliente, filtrado por
	// entry_date <= asOf si se indica.
	SumDebitCredit(ctx context.Context, customerID string, asOf *time.Time) (debit, credit decimal.Decimal, err error)
	// ListByCustomer lista asientos del rango en orden (entry_date, id)
	// ascendente — el orden determinista del extracto.
	ListByCustomer(ctx context.Context, customerID string, from, to time.Time) ([]*entity.LedgerEntry, error)
	// BalancesSummary devuelve una fila por cliente activo con sus totales.
	BalancesSummary(ctx context.Context) ([]*CustomerLedgerSummary, error)
}
