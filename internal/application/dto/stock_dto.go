package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest entrada común de las operaciones de stock (issue, return,
// add). La referencia al documento origen es obligatoria.
type MovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	BranchID  string           `json:"branch_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Ref       ReferenceDTO     `json:"ref"`
	Note      string           `json:"note"`
	CreatedBy string           `json:"created_by"`
}

// AdjustRequest entrada de un ajuste de inventario (delta con signo).
type AdjustRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	BranchID  string          `json:"branch_id" validate:"required"`
	Delta     decimal.Decimal `json:"delta"`
	Ref       ReferenceDTO    `json:"ref"`
	Note      string          `json:"note"`
	CreatedBy string          `json:"created_by"`
}

// MovementResponse salida de un movimiento confirmado.
type MovementResponse struct {
	ID         int64            `json:"id"`
	ProductID  string           `json:"product_id"`
	BranchID   string           `json:"branch_id"`
	Type       string           `json:"type"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TransferID *string          `json:"transfer_id,omitempty"`
	Ref        *ReferenceDTO    `json:"ref,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	CreatedBy  string           `json:"created_by,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// BalanceResponse saldo actual de un (producto, sucursal).
type BalanceResponse struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	MinQty    decimal.Decimal `json:"min_quantity"`
}

// CardRowResponse fila del kardex con saldo corrido.
type CardRowResponse struct {
	Movement       MovementResponse `json:"movement"`
	QtyIn          decimal.Decimal  `json:"qty_in"`
	QtyOut         decimal.Decimal  `json:"qty_out"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
}

// CardResponse kardex de un producto en una sucursal.
type CardResponse struct {
	ProductID         string            `json:"product_id"`
	BranchID          string            `json:"branch_id"`
	From              *time.Time        `json:"from,omitempty"`
	To                *time.Time        `json:"to,omitempty"`
	OpeningBalance    decimal.Decimal   `json:"opening_balance"`
	Rows              []CardRowResponse `json:"rows"`
	ClosingBalance    decimal.Decimal   `json:"closing_balance"`
	TotalAdditions    decimal.Decimal   `json:"total_additions"`
	TotalIssues       decimal.Decimal   `json:"total_issues"`
	TotalReturns      decimal.Decimal   `json:"total_returns"`
	TotalTransfersIn  decimal.Decimal   `json:"total_transfers_in"`
	TotalTransfersOut decimal.Decimal   `json:"total_transfers_out"`
	MovementsCount    int               `json:"movements_count"`
}

// TransferRequest entrada de un traslado entre sucursales.
type TransferRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	FromBranchID string          `json:"from_branch_id" validate:"required"`
	ToBranchID   string          `json:"to_branch_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Ref          ReferenceDTO    `json:"ref"`
	Note         string          `json:"note"`
	CreatedBy    string          `json:"created_by"`
}

// TransferResponse par de movimientos de un traslado confirmado.
type TransferResponse struct {
	TransferID  string           `json:"transfer_id"`
	OutMovement MovementResponse `json:"out_movement"`
	InMovement  MovementResponse `json:"in_movement"`
}
