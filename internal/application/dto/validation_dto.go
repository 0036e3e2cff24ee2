package dto

import "github.com/shopspring/decimal"

// ValidateItemRequest entrada para validar un renglón.
type ValidateItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	BranchID  string          `json:"branch_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ValidateBatchRequest entrada para validar un lote contra una sucursal.
type ValidateBatchRequest struct {
	BranchID string             `json:"branch_id" validate:"required"`
	Items    []BatchItemRequest `json:"items" validate:"required,min=1"`
}

// BatchItemRequest renglón de un lote.
type BatchItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ItemResultResponse veredicto de un renglón.
type ItemResultResponse struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	Valid     bool            `json:"valid"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
	Shortage  decimal.Decimal `json:"shortage"`
}

// BatchResultResponse veredicto agregado de un lote.
type BatchResultResponse struct {
	Valid        bool                 `json:"valid"`
	InvalidCount int                  `json:"invalid_count"`
	Items        []ItemResultResponse `json:"items"`
}

// BranchOptionResponse sucursal candidata dentro de una sugerencia.
type BranchOptionResponse struct {
	BranchID   string          `json:"branch_id"`
	Available  decimal.Decimal `json:"available"`
	CanFulfill bool            `json:"can_fulfill"`
}

// SuggestionResponse alternativa para resolver un faltante.
type SuggestionResponse struct {
	Type           string                 `json:"type"`
	Branches       []BranchOptionResponse `json:"branches,omitempty"`
	TotalAvailable decimal.Decimal        `json:"total_available,omitempty"`
	MaxAvailable   decimal.Decimal        `json:"max_available,omitempty"`
	Requested      decimal.Decimal        `json:"requested"`
	Shortage       decimal.Decimal        `json:"shortage,omitempty"`
}

// SetMinQuantityRequest entrada para configurar el umbral de stock bajo.
type SetMinQuantityRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	BranchID  string          `json:"branch_id" validate:"required"`
	MinQty    decimal.Decimal `json:"min_quantity"`
}
