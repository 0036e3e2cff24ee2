package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-pro/internal/application/ledger"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/testutil"
)

type reportFixture struct {
	uc    *ledger.UseCase
	store *testutil.Store
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := testutil.NewStore()
	repos := store.Repos()
	return &reportFixture{
		uc:    ledger.NewUseCase(testutil.NewTxRunner(store), repos.Customers, repos.Entries),
		store: store,
	}
}

func (f *reportFixture) addCustomer(t *testing.T, name string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.store.Repos().Customers.Create(context.Background(), &entity.Customer{
		ID: id, Code: "C-" + id[:8], Name: name, IsActive: true, CreatedAt: time.Now(),
	}))
	return id
}

func (f *reportFixture) addDebit(t *testing.T, customerID string, daysAgo int, amount string) {
	t.Helper()
	in := debitEntry(time.Now().AddDate(0, 0, -daysAgo), amount)
	_, err := f.uc.AddEntry(context.Background(), customerID, in)
	require.NoError(t, err)
}

func (f *reportFixture) addCredit(t *testing.T, customerID string, daysAgo int, amount string) {
	t.Helper()
	in := creditEntry(time.Now().AddDate(0, 0, -daysAgo), amount)
	_, err := f.uc.AddEntry(context.Background(), customerID, in)
	require.NoError(t, err)
}

func TestReporteClasificaEstadoYActividad(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	deudor := f.addCustomer(t, "Beatriz")
	acreedor := f.addCustomer(t, "Carlos")
	saldado := f.addCustomer(t, "Diana")
	nunca := f.addCustomer(t, "Esteban")

	f.addDebit(t, deudor, 10, "500")          // debtor, very_active
	f.addCredit(t, acreedor, 60, "300")       // creditor, active
	f.addDebit(t, saldado, 120, "200")        // zero, moderate
	f.addCredit(t, saldado, 120, "200")

	rows, err := f.uc.BalancesReport(ctx, false, ledger.SortByName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byID := map[string]*ledger.BalanceRow{}
	for _, r := range rows {
		byID[r.CustomerID] = r
	}

	assert.Equal(t, ledger.StatusDebtor, byID[deudor].Status)
	assert.Equal(t, ledger.ActivityVeryActive, byID[deudor].Activity)
	assert.True(t, byID[deudor].Balance.Equal(decimal.RequireFromString("500")))

	assert.Equal(t, ledger.StatusCreditor, byID[acreedor].Status)
	assert.Equal(t, ledger.ActivityActive, byID[acreedor].Activity)

	assert.Equal(t, ledger.StatusZero, byID[saldado].Status)
	assert.Equal(t, ledger.ActivityModerate, byID[saldado].Activity)

	assert.Equal(t, ledger.StatusZero, byID[nunca].Status)
	assert.Equal(t, ledger.ActivityNeverTransacted, byID[nunca].Activity)
	assert.Equal(t, 0, byID[nunca].EntryCount)
}

func TestReporteInactivo(t *testing.T) {
	f := newReportFixture(t)

	viejo := f.addCustomer(t, "Fernando")
	f.addDebit(t, viejo, 300, "50")

	rows, err := f.uc.BalancesReport(context.Background(), false, ledger.SortByName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.ActivityInactive, rows[0].Activity)
}

func TestReporteSoloConSaldo(t *testing.T) {
	f := newReportFixture(t)

	conSaldo := f.addCustomer(t, "Gloria")
	sinSaldo := f.addCustomer(t, "Hugo")
	f.addDebit(t, conSaldo, 5, "100")
	f.addDebit(t, sinSaldo, 5, "80")
	f.addCredit(t, sinSaldo, 5, "80")

	rows, err := f.uc.BalancesReport(context.Background(), true, ledger.SortByName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, conSaldo, rows[0].CustomerID)
}

func TestReporteOrdenPorNombreConColacion(t *testing.T) {
	f := newReportFixture(t)

	f.addCustomer(t, "Álvaro")
	f.addCustomer(t, "Zulema")
	f.addCustomer(t, "Beatriz")

	rows, err := f.uc.BalancesReport(context.Background(), false, ledger.SortByName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// La colación española ordena Á junto a la A, no después de la Z.
	assert.Equal(t, "Álvaro", rows[0].Name)
	assert.Equal(t, "Beatriz", rows[1].Name)
	assert.Equal(t, "Zulema", rows[2].Name)
}

func TestReporteOrdenPorSaldo(t *testing.T) {
	f := newReportFixture(t)

	menor := f.addCustomer(t, "Irene")
	mayor := f.addCustomer(t, "Jorge")
	f.addDebit(t, menor, 5, "100")
	f.addDebit(t, mayor, 5, "900")

	rows, err := f.uc.BalancesReport(context.Background(), false, ledger.SortByBalance)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, mayor, rows[0].CustomerID)
	assert.Equal(t, menor, rows[1].CustomerID)
}

func TestReporteOrdenPorActividad(t *testing.T) {
	f := newReportFixture(t)

	reciente := f.addCustomer(t, "Karina")
	antiguo := f.addCustomer(t, "Luis")
	nunca := f.addCustomer(t, "Marta")
	f.addDebit(t, antiguo, 90, "10")
	f.addDebit(t, reciente, 1, "10")

	rows, err := f.uc.BalancesReport(context.Background(), false, ledger.SortByLastActivity)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, reciente, rows[0].CustomerID)
	assert.Equal(t, antiguo, rows[1].CustomerID)
	assert.Equal(t, nunca, rows[2].CustomerID)
}

func TestEstadisticasGlobales(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	d1 := f.addCustomer(t, "Nora")
	d2 := f.addCustomer(t, "Óscar")
	cr := f.addCustomer(t, "Paula")
	f.addCustomer(t, "Quique") // sin asientos

	f.addDebit(t, d1, 5, "300")
	f.addDebit(t, d2, 5, "200")
	f.addCredit(t, cr, 5, "150")

	stats, err := f.uc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalCustomers)
	assert.Equal(t, 2, stats.DebtorCount)
	assert.Equal(t, 1, stats.CreditorCount)
	assert.Equal(t, 1, stats.ZeroCount)
	assert.True(t, stats.TotalReceivable.Equal(decimal.RequireFromString("500")))
	assert.True(t, stats.TotalPayable.Equal(decimal.RequireFromString("150")))
	assert.True(t, stats.NetBalance.Equal(decimal.RequireFromString("350")))
}
