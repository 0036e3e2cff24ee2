package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

// LedgerUseCase es el motor de stock: saldo por (producto, sucursal) más log
// append-only de movimientos, mutados siempre juntos en una transacción con
// la fila de saldo bloqueada (SELECT FOR UPDATE).
type LedgerUseCase struct {
	txRunner  repository.TxRunner
	products  repository.ProductRepository
	branches  repository.BranchRepository
	movements repository.InventoryMovementRepository
	balances  repository.StockBalanceRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner repository.TxRunner,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	movements repository.InventoryMovementRepository,
	balances repository.StockBalanceRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		products:  products,
		branches:  branches,
		movements: movements,
		balances:  balances,
	}
}

// MovementInput datos comunes de un movimiento: nota, referencia al documento
// origen (obligatoria en toda mutación), snapshot de precio y usuario.
type MovementInput struct {
	Note      string
	Ref       entity.Reference
	UnitPrice *decimal.Decimal
	CreatedBy string
}

// Issue descuenta stock de la sucursal (salida por despacho). Falla con
// ErrInvalidQuantity si qty <= 0 y con InsufficientStockError si el saldo
// bloqueado es menor a qty. Saldo y movimiento se escriben en una transacción.
func (uc *LedgerUseCase) Issue(ctx context.Context, productID, branchID string, qty decimal.Decimal, in MovementInput) (*entity.InventoryMovement, error) {
	if err := uc.validate(ctx, productID, branchID, qty, in); err != nil {
		return nil, err
	}
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		balance, err := r.Balances.GetForUpdate(ctx, productID, branchID)
		if err != nil {
			return err
		}
		if balance.CurrentQuantity.LessThan(qty) {
			return &domain.InsufficientStockError{
				ProductID: productID,
				BranchID:  branchID,
				Available: balance.CurrentQuantity,
				Requested: qty,
			}
		}
		if err := r.Balances.UpdateQuantity(ctx, productID, branchID, balance.CurrentQuantity.Sub(qty)); err != nil {
			return err
		}
		mov = uc.buildMovement(productID, branchID, entity.MovementTypeISSUE, qty, in)
		return r.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Return reingresa stock devuelto a la sucursal. Siempre procede para qty > 0;
// cada invocación registra un hecho nuevo (la deduplicación es del caller).
func (uc *LedgerUseCase) Return(ctx context.Context, productID, branchID string, qty decimal.Decimal, in MovementInput) (*entity.InventoryMovement, error) {
	return uc.addSide(ctx, productID, branchID, entity.MovementTypeRETURN, qty, in)
}

// Add ingresa stock nuevo (compra o carga inicial).
func (uc *LedgerUseCase) Add(ctx context.Context, productID, branchID string, qty decimal.Decimal, in MovementInput) (*entity.InventoryMovement, error) {
	return uc.addSide(ctx, productID, branchID, entity.MovementTypeADD, qty, in)
}

// Adjust registra un ajuste de inventario con delta con signo. Un delta
// negativo aplica el mismo chequeo de no-negatividad que una salida.
func (uc *LedgerUseCase) Adjust(ctx context.Context, productID, branchID string, delta decimal.Decimal, in MovementInput) (*entity.InventoryMovement, error) {
	if delta.IsZero() {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.validate(ctx, productID, branchID, delta.Abs(), in); err != nil {
		return nil, err
	}
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		balance, err := r.Balances.GetForUpdate(ctx, productID, branchID)
		if err != nil {
			return err
		}
		newQty := balance.CurrentQuantity.Add(delta)
		if newQty.IsNegative() {
			return &domain.InsufficientStockError{
				ProductID: productID,
				BranchID:  branchID,
				Available: balance.CurrentQuantity,
				Requested: delta.Abs(),
			}
		}
		if err := r.Balances.UpdateQuantity(ctx, productID, branchID, newQty); err != nil {
			return err
		}
		// ADJUSTMENT guarda el delta con signo para que la suma del log
		// siga cuadrando contra la proyección.
		mov = uc.buildMovement(productID, branchID, entity.MovementTypeADJUSTMENT, delta, in)
		return r.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// GetBalance devuelve el saldo actual de la clave, consistente con el último
// movimiento confirmado.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, productID, branchID string) (decimal.Decimal, error) {
	balance, err := uc.balances.Get(ctx, productID, branchID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.CurrentQuantity, nil
}

func (uc *LedgerUseCase) addSide(ctx context.Context, productID, branchID, movType string, qty decimal.Decimal, in MovementInput) (*entity.InventoryMovement, error) {
	if err := uc.validate(ctx, productID, branchID, qty, in); err != nil {
		return nil, err
	}
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		balance, err := r.Balances.GetForUpdate(ctx, productID, branchID)
		if err != nil {
			return err
		}
		if err := r.Balances.UpdateQuantity(ctx, productID, branchID, balance.CurrentQuantity.Add(qty)); err != nil {
			return err
		}
		mov = uc.buildMovement(productID, branchID, movType, qty, in)
		return r.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

func (uc *LedgerUseCase) validate(ctx context.Context, productID, branchID string, qty decimal.Decimal, in MovementInput) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	if !in.Ref.Valid() {
		return domain.ErrInvalidReference
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	branch, err := uc.branches.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrBranchNotFound
	}
	return nil
}

func (uc *LedgerUseCase) buildMovement(productID, branchID, movType string, qty decimal.Decimal, in MovementInput) *entity.InventoryMovement {
	ref := in.Ref
	return &entity.InventoryMovement{
		ProductID:         productID,
		BranchID:          branchID,
		Type:              movType,
		Quantity:          qty,
		UnitPriceSnapshot: in.UnitPrice,
		Ref:               &ref,
		Notes:             in.Note,
		CreatedBy:         in.CreatedBy,
	}
}
