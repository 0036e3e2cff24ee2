package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-pro/internal/application/stock"
	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ref(kind entity.ReferenceKind) stock.MovementInput {
	return stock.MovementInput{
		Ref:       entity.Reference{Kind: kind, ID: uuid.New().String()},
		CreatedBy: "tester",
	}
}

// newStockFixture arma el store con un producto y dos sucursales.
func newStockFixture(t *testing.T) (*stock.LedgerUseCase, *testutil.Store, string, string, string) {
	t.Helper()
	store := testutil.NewStore()
	repos := store.Repos()
	ctx := context.Background()

	productID := uuid.New().String()
	branchA := uuid.New().String()
	branchB := uuid.New().String()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: productID, SKU: "SKU-001", Name: "Tornillo M8", UnitPrice: d("1.50"), IsActive: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, repos.Branches.Create(ctx, &entity.Branch{ID: branchA, Name: "Central", IsActive: true, CreatedAt: time.Now()}))
	require.NoError(t, repos.Branches.Create(ctx, &entity.Branch{ID: branchB, Name: "Norte", IsActive: true, CreatedAt: time.Now()}))

	uc := stock.NewLedgerUseCase(testutil.NewTxRunner(store), repos.Products, repos.Branches, repos.Movements, repos.Balances)
	return uc, store, productID, branchA, branchB
}

func TestIssueDescuentaSaldo(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, productID, branchA, d("100"), ref(entity.RefInventoryCount))
	require.NoError(t, err)

	mov, err := uc.Issue(ctx, productID, branchA, d("30"), ref(entity.RefIssueVoucher))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeISSUE, mov.Type)
	assert.True(t, mov.SignedQuantity().Equal(d("-30")))

	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("70")), "esperado 70, obtenido %s", balance)
}

func TestIssueStockInsuficiente(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, productID, branchA, d("10"), ref(entity.RefInventoryCount))
	require.NoError(t, err)

	_, err = uc.Issue(ctx, productID, branchA, d("11"), ref(entity.RefIssueVoucher))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(d("10")))
	assert.True(t, insufficient.Shortage().Equal(d("1")))

	// El rechazo no deja rastro: ni movimiento ni cambio de saldo.
	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("10")))
}

func TestIssueExactamenteElSaldoDejaCero(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, productID, branchA, d("10"), ref(entity.RefInventoryCount))
	require.NoError(t, err)
	_, err = uc.Issue(ctx, productID, branchA, d("10"), ref(entity.RefIssueVoucher))
	require.NoError(t, err)

	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestValidacionesDeMovimiento(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Issue(ctx, productID, branchA, d("0"), ref(entity.RefIssueVoucher))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Issue(ctx, productID, branchA, d("-5"), ref(entity.RefIssueVoucher))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Add(ctx, productID, branchA, d("5"), stock.MovementInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = uc.Add(ctx, uuid.New().String(), branchA, d("5"), ref(entity.RefInventoryCount))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = uc.Add(ctx, productID, uuid.New().String(), d("5"), ref(entity.RefInventoryCount))
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}

func TestReturnSiempreProcede(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	// Una devolución sin stock previo es válida: cada llamada es un hecho nuevo.
	_, err := uc.Return(ctx, productID, branchA, d("5"), ref(entity.RefReturnVoucher))
	require.NoError(t, err)
	_, err = uc.Return(ctx, productID, branchA, d("5"), ref(entity.RefReturnVoucher))
	require.NoError(t, err)

	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("10")))
}

func TestAdjustDeltaConSigno(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, productID, branchA, d("50"), ref(entity.RefInventoryCount))
	require.NoError(t, err)

	mov, err := uc.Adjust(ctx, productID, branchA, d("-7"), ref(entity.RefInventoryCount))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, mov.Type)
	assert.True(t, mov.SignedQuantity().Equal(d("-7")))

	_, err = uc.Adjust(ctx, productID, branchA, d("2.5"), ref(entity.RefInventoryCount))
	require.NoError(t, err)

	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("45.5")))

	// Un ajuste negativo no puede dejar el saldo bajo cero.
	_, err = uc.Adjust(ctx, productID, branchA, d("-100"), ref(entity.RefInventoryCount))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Adjust(ctx, productID, branchA, d("0"), ref(entity.RefInventoryCount))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// El saldo nunca baja de cero aunque muchas salidas compitan por el mismo stock.
func TestConcurrenciaNoNegatividad(t *testing.T) {
	uc, store, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, productID, branchA, d("100"), ref(entity.RefInventoryCount))
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Issue(ctx, productID, branchA, d("3"), ref(entity.RefIssueVoucher)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 100/3 = 33 salidas como máximo.
	assert.Equal(t, 33, succeeded)

	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("1")), "esperado 1, obtenido %s", balance)

	// Reconciliación: proyección == suma con signo del log.
	sum, err := store.Repos().Movements.SumSignedBefore(ctx, productID, branchA, nil)
	require.NoError(t, err)
	assert.True(t, sum.Equal(balance))
}

func TestProductCardDeterministaYReconciliable(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, productID, branchA, d("100"), ref(entity.RefInventoryCount))
	require.NoError(t, err)
	_, err = uc.Issue(ctx, productID, branchA, d("30"), ref(entity.RefIssueVoucher))
	require.NoError(t, err)
	_, err = uc.Return(ctx, productID, branchA, d("5"), ref(entity.RefReturnVoucher))
	require.NoError(t, err)
	_, err = uc.Adjust(ctx, productID, branchA, d("-2"), ref(entity.RefInventoryCount))
	require.NoError(t, err)

	card, err := uc.GetProductCard(ctx, productID, branchA, nil, nil)
	require.NoError(t, err)
	require.Len(t, card.Rows, 4)
	assert.True(t, card.OpeningBalance.IsZero())
	assert.True(t, card.ClosingBalance.Equal(d("73")))

	// Saldos corridos en orden de commit.
	expected := []string{"100", "70", "75", "73"}
	for i, row := range card.Rows {
		assert.True(t, row.RunningBalance.Equal(d(expected[i])),
			"fila %d: esperado %s, obtenido %s", i, expected[i], row.RunningBalance)
	}

	// Totales por tipo.
	assert.True(t, card.Summary.TotalIssues.Equal(d("30")))
	assert.True(t, card.Summary.TotalReturns.Equal(d("5")))
	assert.Equal(t, 4, card.Summary.MovementsCount)

	// El cierre coincide con la proyección.
	balance, err := uc.GetBalance(ctx, productID, branchA)
	require.NoError(t, err)
	assert.True(t, card.ClosingBalance.Equal(balance))

	// Mismo rango, mismo resultado.
	again, err := uc.GetProductCard(ctx, productID, branchA, nil, nil)
	require.NoError(t, err)
	require.Len(t, again.Rows, 4)
	for i := range again.Rows {
		assert.Equal(t, card.Rows[i].Movement.ID, again.Rows[i].Movement.ID)
		assert.True(t, card.Rows[i].RunningBalance.Equal(again.Rows[i].RunningBalance))
	}
}

func TestGetBalanceSinMovimientosEsCero(t *testing.T) {
	uc, _, productID, branchA, _ := newStockFixture(t)

	balance, err := uc.GetBalance(context.Background(), productID, branchA)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}
