package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo implementación sobre PostgreSQL (usable con pool o tx).
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// Create persiste un asiento del libro y asigna ID y CreatedAt.
func (r *LedgerEntryRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO customer_ledger_entries
			(customer_id, entry_date, description, debit, credit,
			 ref_kind, ref_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING id, created_at`
	var refKind, refID, notes, createdBy *string
	if e.Ref != nil {
		k := string(e.Ref.Kind)
		refKind, refID = &k, &e.Ref.ID
	}
	if e.Notes != "" {
		notes = &e.Notes
	}
	if e.CreatedBy != "" {
		createdBy = &e.CreatedBy
	}
	err := r.q.QueryRow(ctx, query,
		e.CustomerID, e.EntryDate, e.Description, e.Debit, e.Credit,
		refKind, refID, notes, createdBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// SumDebitCredit devuelve Σdebe y Σhaber del cliente hasta asOf (inclusive).
func (r *LedgerEntryRepo) SumDebitCredit(ctx context.Context, customerID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM customer_ledger_entries WHERE customer_id = $1`
	args := []any{customerID}
	if asOf != nil {
		query += " AND entry_date <= $2"
		args = append(args, *asOf)
	}
	var debit, credit decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum ledger entries: %w", err)
	}
	return debit, credit, nil
}

// ListByCustomer lista asientos del rango en orden (entry_date, id) ascendente.
func (r *LedgerEntryRepo) ListByCustomer(ctx context.Context, customerID string, from, to time.Time) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, customer_id, entry_date, description, debit, credit,
		       ref_kind, ref_id, notes, created_by, created_at
		FROM customer_ledger_entries
		WHERE customer_id = $1 AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date, id`
	rows, err := r.q.Query(ctx, query, customerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var refKind, refID, notes, createdBy *string
		if err := rows.Scan(
			&e.ID, &e.CustomerID, &e.EntryDate, &e.Description, &e.Debit, &e.Credit,
			&refKind, &refID, &notes, &createdBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if refKind != nil && refID != nil {
			e.Ref = &entity.Reference{Kind: entity.ReferenceKind(*refKind), ID: *refID}
		}
		if notes != nil {
			e.Notes = *notes
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// BalancesSummary agrega los totales del libro por cliente activo (una fila
// por cliente, incluidos los que nunca registraron asientos).
func (r *LedgerEntryRepo) BalancesSummary(ctx context.Context) ([]*repository.CustomerLedgerSummary, error) {
	query := `
		SELECT c.id, c.code, c.name, c.phone,
		       COALESCE(SUM(e.debit), 0)  AS total_debit,
		       COALESCE(SUM(e.credit), 0) AS total_credit,
		       COUNT(e.id)                AS entry_count,
		       MAX(e.entry_date)          AS last_entry_date,
		       c.last_activity_at
		FROM customers c
		LEFT JOIN customer_ledger_entries e ON e.customer_id = c.id
		WHERE c.is_active
		GROUP BY c.id, c.code, c.name, c.phone, c.last_activity_at`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("balances summary: %w", err)
	}
	defer rows.Close()
	var list []*repository.CustomerLedgerSummary
	for rows.Next() {
		var s repository.CustomerLedgerSummary
		if err := rows.Scan(
			&s.CustomerID, &s.Code, &s.Name, &s.Phone,
			&s.TotalDebit, &s.TotalCredit, &s.EntryCount, &s.LastEntryDate, &s.LastActivityAt,
		); err != nil {
			return nil, fmt.Errorf("scan balances summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
