package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-pro/internal/application/stock"
	"github.com/tu-usuario/ledger-pro/internal/application/transfer"
	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/testutil"
	"github.com/tu-usuario/ledger-pro/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store      *testutil.Store
	stockUC    *stock.LedgerUseCase
	transferUC *transfer.CoordinatorUseCase
	productID  string
	branchA    string
	branchB    string
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
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: f.productID, SKU: "SKU-001", Name: "Cable UTP", UnitPrice: d("12"), IsActive: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, repos.Branches.Create(ctx, &entity.Branch{ID: f.branchA, Name: "Central", IsActive: true, CreatedAt: time.Now()}))
	require.NoError(t, repos.Branches.Create(ctx, &entity.Branch{ID: f.branchB, Name: "Norte", IsActive: true, CreatedAt: time.Now()}))

	txRunner := testutil.NewTxRunner(store)
	f.stockUC = stock.NewLedgerUseCase(txRunner, repos.Products, repos.Branches, repos.Movements, repos.Balances)
	f.transferUC = transfer.NewCoordinatorUseCase(txRunner, repos.Products, repos.Branches, repos.Movements, logger.NewNop())
	return f
}

func (f *fixture) seed(t *testing.T, qty string) {
	t.Helper()
	_, err := f.stockUC.Add(context.Background(), f.productID, f.branchA, d(qty), stock.MovementInput{
		Ref: entity.Reference{Kind: entity.RefInventoryCount, ID: uuid.New().String()},
	})
	require.NoError(t, err)
}

func transferInput() transfer.TransferInput {
	return transfer.TransferInput{
		Ref:       entity.Reference{Kind: entity.RefTransferVoucher, ID: uuid.New().String()},
		CreatedBy: "tester",
	}
}

// Recorrido completo: 100 - 30 (salida) - 20 (traslado) + 5 (devolución) = 55.
func TestRecorridoCompletoDeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "100")

	_, err := f.stockUC.Issue(ctx, f.productID, f.branchA, d("30"), stock.MovementInput{
		Ref: entity.Reference{Kind: entity.RefIssueVoucher, ID: uuid.New().String()},
	})
	require.NoError(t, err)

	result, err := f.transferUC.Transfer(ctx, f.productID, f.branchA, f.branchB, d("20"), transferInput())
	require.NoError(t, err)

	balanceA, err := f.stockUC.GetBalance(ctx, f.productID, f.branchA)
	require.NoError(t, err)
	assert.True(t, balanceA.Equal(d("50")))
	balanceB, err := f.stockUC.GetBalance(ctx, f.productID, f.branchB)
	require.NoError(t, err)
	assert.True(t, balanceB.Equal(d("20")))

	// El par comparte referencia y transfer_id, con signos opuestos.
	assert.Equal(t, entity.MovementTypeTRANSFEROUT, result.OutMovement.Type)
	assert.Equal(t, entity.MovementTypeTRANSFERIN, result.InMovement.Type)
	assert.Equal(t, result.OutMovement.Ref.ID, result.InMovement.Ref.ID)
	require.NotNil(t, result.OutMovement.TransferID)
	require.NotNil(t, result.InMovement.TransferID)
	assert.Equal(t, *result.OutMovement.TransferID, *result.InMovement.TransferID)
	assert.True(t, result.OutMovement.SignedQuantity().Equal(d("-20")))
	assert.True(t, result.InMovement.SignedQuantity().Equal(d("20")))

	_, err = f.stockUC.Return(ctx, f.productID, f.branchA, d("5"), stock.MovementInput{
		Ref: entity.Reference{Kind: entity.RefReturnVoucher, ID: uuid.New().String()},
	})
	require.NoError(t, err)

	balanceA, err = f.stockUC.GetBalance(ctx, f.productID, f.branchA)
	require.NoError(t, err)
	assert.True(t, balanceA.Equal(d("55")), "esperado 55, obtenido %s", balanceA)
}

func TestTransferMismaSucursal(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "100")

	_, err := f.transferUC.Transfer(context.Background(), f.productID, f.branchA, f.branchA, d("10"), transferInput())
	assert.ErrorIs(t, err, domain.ErrSameBranchTransfer)
}

func TestTransferCantidadInvalida(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "100")

	_, err := f.transferUC.Transfer(context.Background(), f.productID, f.branchA, f.branchB, d("0"), transferInput())
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestTransferStockInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "10")

	_, err := f.transferUC.Transfer(ctx, f.productID, f.branchA, f.branchB, d("11"), transferInput())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ningún efecto parcial.
	balanceA, err := f.stockUC.GetBalance(ctx, f.productID, f.branchA)
	require.NoError(t, err)
	assert.True(t, balanceA.Equal(d("10")))
	balanceB, err := f.stockUC.GetBalance(ctx, f.productID, f.branchB)
	require.NoError(t, err)
	assert.True(t, balanceB.IsZero())
}

// Si la escritura del TRANSFER_IN falla, también se revierte el TRANSFER_OUT
// y ambos saldos: nunca queda medio traslado.
func TestTransferFalloForzadoRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "100")

	// El primer Create dentro del traslado es el OUT, el segundo el IN.
	f.store.FailOnMovementCreate(2)

	_, err := f.transferUC.Transfer(ctx, f.productID, f.branchA, f.branchB, d("20"), transferInput())
	require.ErrorIs(t, err, testutil.ErrInjected)

	balanceA, err := f.stockUC.GetBalance(ctx, f.productID, f.branchA)
	require.NoError(t, err)
	assert.True(t, balanceA.Equal(d("100")), "el origen debe quedar intacto, obtenido %s", balanceA)
	balanceB, err := f.stockUC.GetBalance(ctx, f.productID, f.branchB)
	require.NoError(t, err)
	assert.True(t, balanceB.IsZero(), "el destino debe quedar intacto")

	// Tampoco quedó movimiento suelto.
	movs, err := f.store.Repos().Movements.ListByProductBranch(ctx, f.productID, f.branchA, nil, nil)
	require.NoError(t, err)
	assert.Len(t, movs, 1) // solo la carga inicial
}

func TestGetByTransferID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "100")

	result, err := f.transferUC.Transfer(ctx, f.productID, f.branchA, f.branchB, d("20"), transferInput())
	require.NoError(t, err)

	pair, err := f.transferUC.GetByTransferID(ctx, result.TransferID)
	require.NoError(t, err)
	require.Len(t, pair, 2)
	assert.Equal(t, entity.MovementTypeTRANSFEROUT, pair[0].Type)
	assert.Equal(t, entity.MovementTypeTRANSFERIN, pair[1].Type)
}

func TestTransferProductoOSucursalInexistente(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "100")
	ctx := context.Background()

	_, err := f.transferUC.Transfer(ctx, uuid.New().String(), f.branchA, f.branchB, d("5"), transferInput())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.transferUC.Transfer(ctx, f.productID, f.branchA, uuid.New().String(), d("5"), transferInput())
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}
