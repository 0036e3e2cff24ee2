package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, product_id, branch_id, movement_type, qty_units,
	unit_price_snapshot, transfer_id, ref_kind, ref_id, notes, created_by, created_at`

// Create persiste un movimiento de inventario y asigna ID y CreatedAt.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements
			(product_id, branch_id, movement_type, qty_units, unit_price_snapshot,
			 transfer_id, ref_kind, ref_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING id, created_at`
	var refKind, refID, createdBy, notes *string
	if m.Ref != nil {
		k := string(m.Ref.Kind)
		refKind, refID = &k, &m.Ref.ID
	}
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	if m.Notes != "" {
		notes = &m.Notes
	}
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.BranchID, m.Type, m.Quantity, m.UnitPriceSnapshot,
		m.TransferID, refKind, refID, notes, createdBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByProductBranch lista movimientos de la clave en orden de commit
// ascendente, opcionalmente acotados por fecha.
func (r *InventoryMovementRepo) ListByProductBranch(ctx context.Context, productID, branchID string, from, to *time.Time) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE product_id = $1 AND branch_id = $2`
	args := []any{productID, branchID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at, id"
	return r.list(ctx, query, args...)
}

// SumSignedBefore suma con signo los movimientos anteriores a before
// (saldo de apertura de la clave). Con before nil suma el log completo.
func (r *InventoryMovementRepo) SumSignedBefore(ctx context.Context, productID, branchID string, before *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE movement_type
				WHEN 'ISSUE'        THEN -qty_units
				WHEN 'TRANSFER_OUT' THEN -qty_units
				ELSE qty_units
			END), 0)
		FROM inventory_movements WHERE product_id = $1 AND branch_id = $2`
	args := []any{productID, branchID}
	if before != nil {
		query += " AND created_at < $3"
		args = append(args, *before)
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// ListByTransferID devuelve el par OUT/IN de un traslado.
func (r *InventoryMovementRepo) ListByTransferID(ctx context.Context, transferID string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE transfer_id = $1
		ORDER BY id`
	return r.list(ctx, query, transferID)
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var refKind, refID, notes, createdBy *string
	if err := row.Scan(
		&m.ID, &m.ProductID, &m.BranchID, &m.Type, &m.Quantity,
		&m.UnitPriceSnapshot, &m.TransferID, &refKind, &refID, &notes, &createdBy, &m.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	if refKind != nil && refID != nil {
		m.Ref = &entity.Reference{Kind: entity.ReferenceKind(*refKind), ID: *refID}
	}
	if notes != nil {
		m.Notes = *notes
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
