package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddEntryRequest entrada de un asiento de cliente. Exactamente uno de
// debit/credit debe ser positivo.
type AddEntryRequest struct {
	EntryDate   time.Time       `json:"entry_date"`
	Description string          `json:"description" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Ref         ReferenceDTO    `json:"ref"`
	Notes       string          `json:"notes"`
	CreatedBy   string          `json:"created_by"`
}

// EntryResponse salida de un asiento.
type EntryResponse struct {
	ID          int64           `json:"id"`
	CustomerID  string          `json:"customer_id"`
	EntryDate   time.Time       `json:"entry_date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Ref         *ReferenceDTO   `json:"ref,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BalanceDTO saldo de un cliente a una fecha.
type BalanceDTO struct {
	CustomerID string          `json:"customer_id"`
	AsOf       *time.Time      `json:"as_of,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
}

// StatementLineResponse asiento del extracto con saldo corrido.
type StatementLineResponse struct {
	Entry          EntryResponse   `json:"entry"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StatementResponse extracto de cuenta de un período.
type StatementResponse struct {
	CustomerID     string                  `json:"customer_id"`
	From           time.Time               `json:"from"`
	To             time.Time               `json:"to"`
	OpeningBalance decimal.Decimal         `json:"opening_balance"`
	Lines          []StatementLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal         `json:"closing_balance"`
	PeriodDebit    decimal.Decimal         `json:"period_debit"`
	PeriodCredit   decimal.Decimal         `json:"period_credit"`
}

// CorrectBalanceRequest entrada de una corrección de saldo.
type CorrectBalanceRequest struct {
	TargetBalance decimal.Decimal `json:"target_balance"`
	Reason        string          `json:"reason" validate:"required"`
	UserID        string          `json:"user_id"`
}

// BalanceRowResponse fila del reporte de saldos.
type BalanceRowResponse struct {
	CustomerID    string          `json:"customer_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	Activity      string          `json:"activity"`
	EntryCount    int             `json:"entry_count"`
	LastEntryDate *time.Time      `json:"last_entry_date,omitempty"`
}

// StatisticsResponse agregados globales del libro de clientes.
type StatisticsResponse struct {
	TotalCustomers  int             `json:"total_customers"`
	DebtorCount     int             `json:"debtor_count"`
	CreditorCount   int             `json:"creditor_count"`
	ZeroCount       int             `json:"zero_count"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	NetBalance      decimal.Decimal `json:"net_balance"`
}
