package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/inventory"
)

// CardRow es una fila del kardex: el movimiento más el saldo corrido
// después de aplicarlo.
type CardRow struct {
	Movement       *entity.InventoryMovement
	QtyIn          decimal.Decimal
	QtyOut         decimal.Decimal
	RunningBalance decimal.Decimal
}

// ProductCard es el kardex de un producto en una sucursal para un rango de
// fechas: apertura, filas con saldo corrido, cierre y totales por tipo.
// Para el mismo rango el resultado es determinista (orden de commit).
type ProductCard struct {
	ProductID      string
	BranchID       string
	From           *time.Time
	To             *time.Time
	OpeningBalance decimal.Decimal
	Rows           []CardRow
	ClosingBalance decimal.Decimal
	Summary        inventory.MovementsSummary
}

// GetProductCard arma el kardex: apertura = suma con signo de los movimientos
// anteriores a from, luego cada movimiento del rango con su saldo corrido.
// Sin from la apertura es cero; sin to llega hasta el último movimiento.
func (uc *LedgerUseCase) GetProductCard(ctx context.Context, productID, branchID string, from, to *time.Time) (*ProductCard, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	branch, err := uc.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrBranchNotFound
	}

	opening := decimal.Zero
	if from != nil {
		opening, err = uc.movements.SumSignedBefore(ctx, productID, branchID, from)
		if err != nil {
			return nil, err
		}
	}
	movements, err := uc.movements.ListByProductBranch(ctx, productID, branchID, from, to)
	if err != nil {
		return nil, err
	}

	card := &ProductCard{
		ProductID:      productID,
		BranchID:       branchID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Rows:           make([]CardRow, 0, len(movements)),
		Summary:        inventory.Summarize(movements),
	}
	running := opening
	for _, m := range movements {
		signed := m.SignedQuantity()
		running = running.Add(signed)
		row := CardRow{Movement: m, QtyIn: decimal.Zero, QtyOut: decimal.Zero, RunningBalance: running}
		if signed.IsNegative() {
			row.QtyOut = signed.Neg()
		} else {
			row.QtyIn = signed
		}
		card.Rows = append(card.Rows, row)
	}
	card.ClosingBalance = running
	return card, nil
}
