package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// StockBalanceRepository define el puerto de persistencia para los saldos de
// stock por (producto, sucursal).
type StockBalanceRepository interface {
	// Get lee el saldo sin bloquear. Si la fila no existe devuelve un saldo
	// en cero (la fila se crea perezosamente con el primer movimiento).
	Get(ctx context.Context, productID, branchID string) (*entity.StockBalance, error)
	// GetForUpdate crea la fila si falta y la bloquea (FOR UPDATE) por el
	// resto de la transacción. Solo tiene sentido dentro de un TxRunner.Run.
	GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockBalance, error)
	// UpdateQuantity fija el saldo de la clave. El caller debe tener la fila
	// bloqueada con GetForUpdate.
	UpdateQuantity(ctx context.Context, productID, branchID string, qty decimal.Decimal) error
	// ListByProduct lista los saldos de un producto en todas las sucursales.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error)
	// ListLowStock lista saldos en o por debajo de su umbral (min_quantity > 0).
	ListLowStock(ctx context.Context, branchID string) ([]*entity.StockBalance, error)
	// ListOutOfStock lista saldos agotados (cantidad <= 0) de la sucursal.
	ListOutOfStock(ctx context.Context, branchID string) ([]*entity.StockBalance, error)
	// SetMinQuantity configura el umbral de stock bajo de la clave.
	SetMinQuantity(ctx context.Context, productID, branchID string, min decimal.Decimal) error
}
