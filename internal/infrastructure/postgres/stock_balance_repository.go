package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo actual sin bloquear. Si la fila no existe devuelve
// un saldo en cero (la fila se crea con el primer movimiento).
func (r *StockBalanceRepo) Get(ctx context.Context, productID, branchID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at
		FROM stock_balances WHERE product_id = $1 AND branch_id = $2`
	var s entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&s.ProductID, &s.BranchID, &s.CurrentQuantity, &s.ReservedQuantity, &s.MinQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroBalance(productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &s, nil
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta
// el fin de la transacción. Serializa las mutaciones concurrentes de la clave.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (product_id, branch_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, branchID); err != nil {
		return nil, fmt.Errorf("ensure stock balance row: %w", err)
	}

	query := `
		SELECT product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at
		FROM stock_balances WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	var s entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&s.ProductID, &s.BranchID, &s.CurrentQuantity, &s.ReservedQuantity, &s.MinQuantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &s, nil
}

// UpdateQuantity fija el saldo de la clave. Requiere la fila bloqueada.
func (r *StockBalanceRepo) UpdateQuantity(ctx context.Context, productID, branchID string, qty decimal.Decimal) error {
	query := `
		UPDATE stock_balances SET current_quantity = $3, updated_at = now()
		WHERE product_id = $1 AND branch_id = $2`
	_, err := r.q.Exec(ctx, query, productID, branchID, qty)
	if err != nil {
		return fmt.Errorf("update stock balance: %w", err)
	}
	return nil
}

// ListByProduct lista los saldos del producto en todas las sucursales.
func (r *StockBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at
		FROM stock_balances WHERE product_id = $1
		ORDER BY branch_id`
	return r.list(ctx, query, productID)
}

// ListLowStock lista saldos en o por debajo de su umbral configurado.
func (r *StockBalanceRepo) ListLowStock(ctx context.Context, branchID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at
		FROM stock_balances
		WHERE branch_id = $1 AND min_quantity > 0 AND current_quantity <= min_quantity
		ORDER BY product_id`
	return r.list(ctx, query, branchID)
}

// ListOutOfStock lista saldos agotados de la sucursal.
func (r *StockBalanceRepo) ListOutOfStock(ctx context.Context, branchID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at
		FROM stock_balances
		WHERE branch_id = $1 AND current_quantity <= 0
		ORDER BY product_id`
	return r.list(ctx, query, branchID)
}

// SetMinQuantity configura el umbral de stock bajo (crea la fila si falta).
func (r *StockBalanceRepo) SetMinQuantity(ctx context.Context, productID, branchID string, min decimal.Decimal) error {
	query := `
		INSERT INTO stock_balances (product_id, branch_id, current_quantity, reserved_quantity, min_quantity, updated_at)
		VALUES ($1, $2, 0, 0, $3, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET min_quantity = EXCLUDED.min_quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, productID, branchID, min)
	if err != nil {
		return fmt.Errorf("set min quantity: %w", err)
	}
	return nil
}

func (r *StockBalanceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var s entity.StockBalance
		if err := rows.Scan(&s.ProductID, &s.BranchID, &s.CurrentQuantity, &s.ReservedQuantity, &s.MinQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func zeroBalance(productID, branchID string) *entity.StockBalance {
	return &entity.StockBalance{
		ProductID:        productID,
		BranchID:         branchID,
		CurrentQuantity:  decimal.Zero,
		ReservedQuantity: decimal.Zero,
		MinQuantity:      decimal.Zero,
	}
}
