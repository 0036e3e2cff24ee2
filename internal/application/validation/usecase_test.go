package validation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-pro/internal/application/validation"
	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	uc        *validation.ValidatorUseCase
	store     *testutil.Store
	productID string
	branchA   string
	branchB   string
	branchC   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	repos := store.Repos()
	ctx := context.Background()

	f := &fixture{
		store:     store,
		productID: uuid.New().String(),
		branchA:   uuid.New().String(),
		branchB:   uuid.New().String(),
		branchC:   uuid.New().String(),
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: f.productID, SKU: "SKU-001", Name: "Lámpara LED", UnitPrice: d("9"), IsActive: true, CreatedAt: time.Now(),
	}))
	for _, pair := range []struct{ id, name string }{
		{f.branchA, "Central"}, {f.branchB, "Norte"}, {f.branchC, "Sur"},
	} {
		require.NoError(t, repos.Branches.Create(ctx, &entity.Branch{ID: pair.id, Name: pair.name, IsActive: true, CreatedAt: time.Now()}))
	}
	f.uc = validation.NewValidatorUseCase(repos.Products, repos.Branches, repos.Balances)
	return f
}

// setStock fija el saldo directamente (los tests de validación no necesitan
// pasar por el motor de movimientos).
func (f *fixture) setStock(t *testing.T, branchID, qty string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.store.Repos().Balances.GetForUpdate(ctx, f.productID, branchID)
	require.NoError(t, err)
	require.NoError(t, f.store.Repos().Balances.UpdateQuantity(ctx, f.productID, branchID, d(qty)))
}

func TestValidateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setStock(t, f.branchA, "50")

	ok, err := f.uc.ValidateItem(ctx, f.productID, f.branchA, d("30"))
	require.NoError(t, err)
	assert.True(t, ok.Valid)
	assert.True(t, ok.Shortage.IsZero())

	bad, err := f.uc.ValidateItem(ctx, f.productID, f.branchA, d("80"))
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.True(t, bad.Available.Equal(d("50")))
	assert.True(t, bad.Shortage.Equal(d("30")))

	_, err = f.uc.ValidateItem(ctx, f.productID, f.branchA, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.ValidateItem(ctx, uuid.New().String(), f.branchA, d("1"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestValidateItemSinFilaDeSaldo(t *testing.T) {
	f := newFixture(t)

	// Sin fila de saldo la disponibilidad es cero, no un error.
	result, err := f.uc.ValidateItem(context.Background(), f.productID, f.branchA, d("5"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, result.Available.IsZero())
	assert.True(t, result.Shortage.Equal(d("5")))
}

func TestValidateBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setStock(t, f.branchA, "50")

	otherProduct := uuid.New().String()
	require.NoError(t, f.store.Repos().Products.Create(ctx, &entity.Product{
		ID: otherProduct, SKU: "SKU-002", Name: "Enchufe", UnitPrice: d("3"), IsActive: true, CreatedAt: time.Now(),
	}))

	result, err := f.uc.ValidateBatch(ctx, []validation.BatchItem{
		{ProductID: f.productID, Quantity: d("30")},
		{ProductID: otherProduct, Quantity: d("1")},
	}, f.branchA)
	require.NoError(t, err)
	assert.False(t, result.Valid, "un renglón inválido invalida el lote")
	assert.Equal(t, 1, result.InvalidCount)
	require.Len(t, result.Items, 2)
	assert.True(t, result.Items[0].Valid)
	assert.False(t, result.Items[1].Valid)
}

func TestSuggestTrasladoYParticion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setStock(t, f.branchA, "5")
	f.setStock(t, f.branchB, "100")
	f.setStock(t, f.branchC, "40")

	suggestions, err := f.uc.Suggest(ctx, f.productID, f.branchA, d("60"))
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	// B cubre sola el pedido: la primera sugerencia es traslado.
	assert.Equal(t, validation.SuggestTransfer, suggestions[0].Type)
	require.Len(t, suggestions[0].Branches, 1)
	assert.Equal(t, f.branchB, suggestions[0].Branches[0].BranchID)
	assert.True(t, suggestions[0].Branches[0].CanFulfill)

	// B + C suman 140: también es posible partir el pedido.
	require.GreaterOrEqual(t, len(suggestions), 2)
	assert.Equal(t, validation.SuggestSplit, suggestions[1].Type)
	assert.True(t, suggestions[1].TotalAvailable.Equal(d("140")))

	// Hay 5 locales: reducir también aparece.
	require.Len(t, suggestions, 3)
	assert.Equal(t, validation.SuggestReduce, suggestions[2].Type)
	assert.True(t, suggestions[2].MaxAvailable.Equal(d("5")))
	assert.True(t, suggestions[2].Shortage.Equal(d("55")))
}

func TestSuggestSoloParticion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setStock(t, f.branchB, "40")
	f.setStock(t, f.branchC, "30")

	suggestions, err := f.uc.Suggest(ctx, f.productID, f.branchA, d("60"))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, validation.SuggestSplit, suggestions[0].Type)
	assert.Len(t, suggestions[0].Branches, 2)
}

func TestSuggestCompraCuandoNoHayNada(t *testing.T) {
	f := newFixture(t)

	suggestions, err := f.uc.Suggest(context.Background(), f.productID, f.branchA, d("10"))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, validation.SuggestPurchase, suggestions[0].Type)
	assert.True(t, suggestions[0].Requested.Equal(d("10")))
}

func TestLowStockYOutOfStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	low := uuid.New().String()
	empty := uuid.New().String()
	healthy := uuid.New().String()
	for i, pair := range []struct{ id, sku string }{{low, "SKU-L"}, {empty, "SKU-E"}, {healthy, "SKU-H"}} {
		require.NoError(t, f.store.Repos().Products.Create(ctx, &entity.Product{
			ID: pair.id, SKU: pair.sku, Name: pair.sku, UnitPrice: d("1"), IsActive: true,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}
	balances := f.store.Repos().Balances
	for _, id := range []string{low, empty, healthy} {
		_, err := balances.GetForUpdate(ctx, id, f.branchA)
		require.NoError(t, err)
	}
	require.NoError(t, balances.UpdateQuantity(ctx, low, f.branchA, d("3")))
	require.NoError(t, balances.SetMinQuantity(ctx, low, f.branchA, d("5")))
	require.NoError(t, balances.UpdateQuantity(ctx, empty, f.branchA, d("0")))
	require.NoError(t, balances.UpdateQuantity(ctx, healthy, f.branchA, d("100")))
	require.NoError(t, balances.SetMinQuantity(ctx, healthy, f.branchA, d("5")))

	lowRows, err := f.uc.LowStock(ctx, f.branchA)
	require.NoError(t, err)
	require.Len(t, lowRows, 1)
	assert.Equal(t, low, lowRows[0].ProductID)

	outRows, err := f.uc.OutOfStock(ctx, f.branchA)
	require.NoError(t, err)
	require.Len(t, outRows, 1)
	assert.Equal(t, empty, outRows[0].ProductID)

	_, err = f.uc.LowStock(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}

func TestSetMinQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.SetMinQuantity(ctx, f.productID, f.branchA, d("10")))

	err := f.uc.SetMinQuantity(ctx, f.productID, f.branchA, d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = f.uc.SetMinQuantity(ctx, uuid.New().String(), f.branchA, d("1"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
