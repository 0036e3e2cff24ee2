package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
	"github.com/tu-usuario/ledger-pro/pkg/logger"
)

// CoordinatorUseCase orquesta traslados de stock entre sucursales: un par
// TRANSFER_OUT/TRANSFER_IN atómico o nada.
type CoordinatorUseCase struct {
	txRunner  repository.TxRunner
	products  repository.ProductRepository
	branches  repository.BranchRepository
	movements repository.InventoryMovementRepository
	log       *logger.Logger
}

// NewCoordinatorUseCase construye el caso de uso.
func NewCoordinatorUseCase(
	txRunner repository.TxRunner,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	movements repository.InventoryMovementRepository,
	log *logger.Logger,
) *CoordinatorUseCase {
	return &CoordinatorUseCase{txRunner: txRunner, products: products, branches: branches, movements: movements, log: log}
}

// TransferInput datos del traslado: nota, referencia al documento origen y usuario.
type TransferInput struct {
	Note      string
	Ref       entity.Reference
	CreatedBy string
}

// Result es el par de movimientos de un traslado confirmado.
type Result struct {
	TransferID  string
	OutMovement *entity.InventoryMovement
	InMovement  *entity.InventoryMovement
}

// Transfer mueve qty del producto de una sucursal a otra en una sola
// transacción: bloquea ambas filas de saldo en orden ascendente de sucursal
// (evita deadlocks entre traslados cruzados), descuenta el origen, incrementa
// el destino y registra TRANSFER_OUT + TRANSFER_IN compartiendo referencia y
// un transfer_id generado. Si algo falla no queda ningún efecto parcial.
func (uc *CoordinatorUseCase) Transfer(ctx context.Context, productID, fromBranchID, toBranchID string, qty decimal.Decimal, in TransferInput) (*Result, error) {
	if fromBranchID == toBranchID {
		return nil, domain.ErrSameBranchTransfer
	}
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if !in.Ref.Valid() {
		return nil, domain.ErrInvalidReference
	}
	if err := uc.checkExists(ctx, productID, fromBranchID, toBranchID); err != nil {
		return nil, err
	}

	transferID := uuid.New().String()
	result := &Result{TransferID: transferID}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		// Orden de bloqueo estable por ID de sucursal.
		first, second := fromBranchID, toBranchID
		if second < first {
			first, second = second, first
		}
		locked := map[string]*entity.StockBalance{}
		for _, branchID := range []string{first, second} {
			balance, err := r.Balances.GetForUpdate(ctx, productID, branchID)
			if err != nil {
				return err
			}
			locked[branchID] = balance
		}

		source := locked[fromBranchID]
		if source.CurrentQuantity.LessThan(qty) {
			return &domain.InsufficientStockError{
				ProductID: productID,
				BranchID:  fromBranchID,
				Available: source.CurrentQuantity,
				Requested: qty,
			}
		}
		target := locked[toBranchID]
		if err := r.Balances.UpdateQuantity(ctx, productID, fromBranchID, source.CurrentQuantity.Sub(qty)); err != nil {
			return err
		}
		if err := r.Balances.UpdateQuantity(ctx, productID, toBranchID, target.CurrentQuantity.Add(qty)); err != nil {
			return err
		}

		out := uc.buildMovement(productID, fromBranchID, entity.MovementTypeTRANSFEROUT, qty, transferID, in)
		if err := r.Movements.Create(ctx, out); err != nil {
			return err
		}
		inMov := uc.buildMovement(productID, toBranchID, entity.MovementTypeTRANSFERIN, qty, transferID, in)
		if err := r.Movements.Create(ctx, inMov); err != nil {
			return err
		}
		result.OutMovement = out
		result.InMovement = inMov
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", transferID).
		Str("product_id", productID).
		Str("from", fromBranchID).
		Str("to", toBranchID).
		Str("qty", qty.String()).
		Msg("traslado confirmado")
	return result, nil
}

// GetByTransferID devuelve el par OUT/IN de un traslado confirmado.
func (uc *CoordinatorUseCase) GetByTransferID(ctx context.Context, transferID string) ([]*entity.InventoryMovement, error) {
	return uc.movements.ListByTransferID(ctx, transferID)
}

func (uc *CoordinatorUseCase) checkExists(ctx context.Context, productID, fromBranchID, toBranchID string) error {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	for _, branchID := range []string{fromBranchID, toBranchID} {
		branch, err := uc.branches.GetByID(ctx, branchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return domain.ErrBranchNotFound
		}
	}
	return nil
}

func (uc *CoordinatorUseCase) buildMovement(productID, branchID, movType string, qty decimal.Decimal, transferID string, in TransferInput) *entity.InventoryMovement {
	ref := in.Ref
	tid := transferID
	return &entity.InventoryMovement{
		ProductID:  productID,
		BranchID:   branchID,
		Type:       movType,
		Quantity:   qty,
		TransferID: &tid,
		Ref:        &ref,
		Notes:      in.Note,
		CreatedBy:  in.CreatedBy,
	}
}
