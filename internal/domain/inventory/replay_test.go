package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/inventory"
)

func mov(typ, qty string) *entity.InventoryMovement {
	return &entity.InventoryMovement{Type: typ, Quantity: decimal.RequireFromString(qty)}
}

func TestFoldBalanceReproduceElSaldo(t *testing.T) {
	movements := []*entity.InventoryMovement{
		mov(entity.MovementTypeADD, "100"),
		mov(entity.MovementTypeISSUE, "30"),
		mov(entity.MovementTypeRETURN, "5"),
		mov(entity.MovementTypeTRANSFEROUT, "20"),
		mov(entity.MovementTypeADJUSTMENT, "-2.5"),
	}

	balance := inventory.FoldBalance(decimal.Zero, movements)
	assert.True(t, balance.Equal(decimal.RequireFromString("52.5")))

	// Con apertura distinta de cero el fold parte de ella.
	balance = inventory.FoldBalance(decimal.RequireFromString("10"), movements)
	assert.True(t, balance.Equal(decimal.RequireFromString("62.5")))

	assert.True(t, inventory.FoldBalance(decimal.Zero, nil).IsZero())
}

func TestSummarizeTotalesPorTipo(t *testing.T) {
	movements := []*entity.InventoryMovement{
		mov(entity.MovementTypeADD, "100"),
		mov(entity.MovementTypeISSUE, "30"),
		mov(entity.MovementTypeRETURN, "5"),
		mov(entity.MovementTypeTRANSFERIN, "8"),
		mov(entity.MovementTypeTRANSFEROUT, "20"),
		mov(entity.MovementTypeADJUSTMENT, "-2"),
	}

	s := inventory.Summarize(movements)
	assert.True(t, s.TotalAdditions.Equal(decimal.RequireFromString("113")), "entradas = ADD + RETURN + TRANSFER_IN")
	assert.True(t, s.TotalIssues.Equal(decimal.RequireFromString("50")), "salidas = ISSUE + TRANSFER_OUT")
	assert.True(t, s.TotalReturns.Equal(decimal.RequireFromString("5")))
	assert.True(t, s.TotalTransfersIn.Equal(decimal.RequireFromString("8")))
	assert.True(t, s.TotalTransfersOut.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, 6, s.MovementsCount)
}
