package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el log
// append-only de movimientos. No hay Update ni Delete: los movimientos son
// hechos inmutables.
type InventoryMovementRepository interface {
	// Create inserta el movimiento y asigna ID y CreatedAt.
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByProductBranch lista movimientos de la clave en orden de commit
	// (created_at, id) ascendente, filtrados por rango de fechas opcional.
	ListByProductBranch(ctx context.Context, productID, branchID string, from, to *time.Time) ([]*entity.InventoryMovement, error)
	// SumSignedBefore devuelve la suma con signo de los movimientos de la
	// clave anteriores a before (saldo de apertura). Con before nil suma todo.
	SumSignedBefore(ctx context.Context, productID, branchID string, before *time.Time) (decimal.Decimal, error)
	// ListByTransferID devuelve el par OUT/IN de un traslado.
	ListByTransferID(ctx context.Context, transferID string) ([]*entity.InventoryMovement, error)
}
