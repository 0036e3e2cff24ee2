package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Estado del saldo de un cliente.
const (
	StatusDebtor   = "debtor"   // saldo positivo: el cliente debe
	StatusCreditor = "creditor" // saldo negativo: saldo a favor del cliente
	StatusZero     = "zero"
)

// Clasificación de actividad según días desde el último asiento.
const (
	ActivityVeryActive      = "very_active" // <= 30 días
	ActivityActive          = "active"      // <= 90 días
	ActivityModerate        = "moderate"    // <= 180 días
	ActivityInactive        = "inactive"    // > 180 días
	ActivityNeverTransacted = "never_transacted"
)

// Criterios de ordenación del reporte de saldos.
const (
	SortByName         = "name"
	SortByBalance      = "balance"
	SortByLastActivity = "last_activity"
)

// BalanceRow es la fila de un cliente en el reporte de saldos.
type BalanceRow struct {
	CustomerID    string
	Code          string
	Name          string
	Phone         string
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Balance       decimal.Decimal
	Status        string
	Activity      string
	EntryCount    int
	LastEntryDate *time.Time
}

// BalancesReport arma el reporte de saldos de todos los clientes activos.
// Con onlyWithBalance se omiten los clientes con saldo cero. sortBy acepta
// name (colación española), balance (descendente) o last_activity (reciente
// primero); cualquier otro valor cae en name.
func (uc *UseCase) BalancesReport(ctx context.Context, onlyWithBalance bool, sortBy string) ([]*BalanceRow, error) {
	summaries, err := uc.entries.BalancesSummary(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rows := make([]*BalanceRow, 0, len(summaries))
	for _, s := range summaries {
		balance := s.TotalDebit.Sub(s.TotalCredit)
		if onlyWithBalance && balance.IsZero() {
			continue
		}
		rows = append(rows, &BalanceRow{
			CustomerID:    s.CustomerID,
			Code:          s.Code,
			Name:          s.Name,
			Phone:         s.Phone,
			TotalDebit:    s.TotalDebit,
			TotalCredit:   s.TotalCredit,
			Balance:       balance,
			Status:        balanceStatus(balance),
			Activity:      classifyActivity(s.LastEntryDate, s.EntryCount, now),
			EntryCount:    s.EntryCount,
			LastEntryDate: s.LastEntryDate,
		})
	}
	sortRows(rows, sortBy)
	return rows, nil
}

// Statistics agrega los totales globales del libro de clientes.
type Statistics struct {
	TotalCustomers  int
	DebtorCount     int
	CreditorCount   int
	ZeroCount       int
	TotalReceivable decimal.Decimal // Σ saldos positivos
	TotalPayable    decimal.Decimal // Σ |saldos negativos|
	NetBalance      decimal.Decimal // receivable - payable
}

// Statistics calcula los agregados del libro sobre los clientes activos.
func (uc *UseCase) Statistics(ctx context.Context) (*Statistics, error) {
	summaries, err := uc.entries.BalancesSummary(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Statistics{
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
	}
	for _, s := range summaries {
		stats.TotalCustomers++
		balance := s.TotalDebit.Sub(s.TotalCredit)
		switch {
		case balance.IsPositive():
			stats.DebtorCount++
			stats.TotalReceivable = stats.TotalReceivable.Add(balance)
		case balance.IsNegative():
			stats.CreditorCount++
			stats.TotalPayable = stats.TotalPayable.Add(balance.Neg())
		default:
			stats.ZeroCount++
		}
	}
	stats.NetBalance = stats.TotalReceivable.Sub(stats.TotalPayable)
	return stats, nil
}

func balanceStatus(balance decimal.Decimal) string {
	switch {
	case balance.IsPositive():
		return StatusDebtor
	case balance.IsNegative():
		return StatusCreditor
	}
	return StatusZero
}

func classifyActivity(lastEntry *time.Time, entryCount int, now time.Time) string {
	if entryCount == 0 || lastEntry == nil {
		return ActivityNeverTransacted
	}
	days := int(now.Sub(*lastEntry).Hours() / 24)
	switch {
	case days <= 30:
		return ActivityVeryActive
	case days <= 90:
		return ActivityActive
	case days <= 180:
		return ActivityModerate
	}
	return ActivityInactive
}

func sortRows(rows []*BalanceRow, sortBy string) {
	switch sortBy {
	case SortByBalance:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Balance.GreaterThan(rows[j].Balance)
		})
	case SortByLastActivity:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].LastEntryDate, rows[j].LastEntryDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.After(*b)
		})
	default:
		c := collate.New(language.Spanish)
		sort.SliceStable(rows, func(i, j int) bool {
			return c.CompareString(rows[i].Name, rows[j].Name) < 0
		})
	}
}
