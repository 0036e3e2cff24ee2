package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

// correctionEpsilon: diferencias menores a un centavo no generan corrección.
var correctionEpsilon = decimal.NewFromFloat(0.01)

// UseCase gestiona la cuenta corriente de clientes: asientos de partida doble
// append-only y las lecturas derivadas (saldo, extracto, reportes).
type UseCase struct {
	txRunner  repository.TxRunner
	customers repository.CustomerRepository
	entries   repository.LedgerEntryRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, customers repository.CustomerRepository, entries repository.LedgerEntryRepository) *UseCase {
	return &UseCase{txRunner: txRunner, customers: customers, entries: entries}
}

// EntryInput datos de un asiento nuevo.
type EntryInput struct {
	EntryDate   time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Ref         entity.Reference
	Notes       string
	CreatedBy   string
}

// AddEntry registra un asiento. Exactamente uno de debe/haber debe ser
// positivo y el otro cero; si no, ErrInvalidLedgerEntry. Actualiza
// last_activity_at del cliente en la misma transacción.
func (uc *UseCase) AddEntry(ctx context.Context, customerID string, in EntryInput) (*entity.LedgerEntry, error) {
	if !validEntryAmounts(in.Debit, in.Credit) {
		return nil, domain.ErrInvalidLedgerEntry
	}
	if !in.Ref.Valid() {
		return nil, domain.ErrInvalidReference
	}
	var entry *entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		customer, err := r.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotFound
		}
		ref := in.Ref
		entry = &entity.LedgerEntry{
			CustomerID:  customerID,
			EntryDate:   in.EntryDate,
			Description: in.Description,
			Debit:       in.Debit,
			Credit:      in.Credit,
			Ref:         &ref,
			Notes:       in.Notes,
			CreatedBy:   in.CreatedBy,
		}
		if err := r.Entries.Create(ctx, entry); err != nil {
			return err
		}
		return r.Customers.TouchActivity(ctx, customerID, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance devuelve Σdebe - Σhaber del cliente. Con asOf, solo asientos con
// entry_date <= asOf. Positivo = el cliente debe; negativo = saldo a favor.
func (uc *UseCase) Balance(ctx context.Context, customerID string, asOf *time.Time) (decimal.Decimal, error) {
	customer, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if customer == nil {
		return decimal.Zero, domain.ErrCustomerNotFound
	}
	debit, credit, err := uc.entries.SumDebitCredit(ctx, customerID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return debit.Sub(credit), nil
}

// StatementLine es un asiento del extracto con su saldo corrido.
type StatementLine struct {
	Entry          *entity.LedgerEntry
	RunningBalance decimal.Decimal
}

// Statement es el extracto de cuenta de un período: apertura, asientos en
// orden (fecha, id) con saldo corrido, cierre y totales del período.
// Invariante: apertura + Σdebe - Σhaber = cierre.
type Statement struct {
	CustomerID     string
	From           time.Time
	To             time.Time
	OpeningBalance decimal.Decimal
	Lines          []StatementLine
	ClosingBalance decimal.Decimal
	PeriodDebit    decimal.Decimal
	PeriodCredit   decimal.Decimal
}

// Statement arma el extracto del período [from, to]. La apertura es el saldo
// al día anterior a from; el cierre es apertura más el fold del período.
func (uc *UseCase) Statement(ctx context.Context, customerID string, from, to time.Time) (*Statement, error) {
	dayBefore := from.AddDate(0, 0, -1)
	opening, err := uc.Balance(ctx, customerID, &dayBefore)
	if err != nil {
		return nil, err
	}
	entries, err := uc.entries.ListByCustomer(ctx, customerID, from, to)
	if err != nil {
		return nil, err
	}

	st := &Statement{
		CustomerID:     customerID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          make([]StatementLine, 0, len(entries)),
		PeriodDebit:    decimal.Zero,
		PeriodCredit:   decimal.Zero,
	}
	running := opening
	for _, e := range entries {
		running = running.Add(e.Amount())
		st.Lines = append(st.Lines, StatementLine{Entry: e, RunningBalance: running})
		st.PeriodDebit = st.PeriodDebit.Add(e.Debit)
		st.PeriodCredit = st.PeriodCredit.Add(e.Credit)
	}
	st.ClosingBalance = running
	return st, nil
}

// CorrectBalance lleva el saldo del cliente al valor objetivo con un asiento
// de ajuste. Si |objetivo - actual| < 0.01 devuelve ErrNoOpCorrection. El
// asiento queda referenciado como balance_correction y las notas registran
// el saldo anterior y el nuevo.
func (uc *UseCase) CorrectBalance(ctx context.Context, customerID string, target decimal.Decimal, reason, userID string) (*entity.LedgerEntry, error) {
	var entry *entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		customer, err := r.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotFound
		}
		debit, credit, err := r.Entries.SumDebitCredit(ctx, customerID, nil)
		if err != nil {
			return err
		}
		current := debit.Sub(credit)
		delta := target.Sub(current)
		if delta.Abs().LessThan(correctionEpsilon) {
			return domain.ErrNoOpCorrection
		}
		entry = &entity.LedgerEntry{
			CustomerID:  customerID,
			EntryDate:   time.Now(),
			Description: fmt.Sprintf("Corrección de saldo: %s", reason),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Ref:         &entity.Reference{Kind: entity.RefBalanceCorrection, ID: customerID},
			Notes:       fmt.Sprintf("saldo anterior: %s, saldo nuevo: %s", current.String(), target.String()),
			CreatedBy:   userID,
		}
		if delta.IsPositive() {
			entry.Debit = delta
		} else {
			entry.Credit = delta.Neg()
		}
		if err := r.Entries.Create(ctx, entry); err != nil {
			return err
		}
		return r.Customers.TouchActivity(ctx, customerID, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func validEntryAmounts(debit, credit decimal.Decimal) bool {
	if debit.IsNegative() || credit.IsNegative() {
		return false
	}
	return debit.IsPositive() != credit.IsPositive()
}
