package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/application/dto"
	"github.com/tu-usuario/ledger-pro/internal/application/stock"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del motor de stock.
type StockHandler struct {
	uc *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

type movementOp func(ctx context.Context, productID, branchID string, qty decimal.Decimal, in stock.MovementInput) (*entity.InventoryMovement, error)

// Issue registra una salida de stock.
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Issue)
}

// Return registra una devolución al stock.
func (h *StockHandler) Return(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Return)
}

// Add registra una entrada de stock.
func (h *StockHandler) Add(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Add)
}

func (h *StockHandler) movement(c *fiber.Ctx, op movementOp) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.BranchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y branch_id son requeridos"})
	}
	mov, err := op(c.Context(), in.ProductID, in.BranchID, in.Quantity, stock.MovementInput{
		Note:      in.Note,
		Ref:       entity.Reference{Kind: entity.ReferenceKind(in.Ref.Kind), ID: in.Ref.ID},
		UnitPrice: in.UnitPrice,
		CreatedBy: in.CreatedBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Adjust registra un ajuste de inventario con delta con signo.
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.BranchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y branch_id son requeridos"})
	}
	mov, err := h.uc.Adjust(c.Context(), in.ProductID, in.BranchID, in.Delta, stock.MovementInput{
		Note:      in.Note,
		Ref:       entity.Reference{Kind: entity.ReferenceKind(in.Ref.Kind), ID: in.Ref.ID},
		CreatedBy: in.CreatedBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// GetBalance devuelve el saldo actual de un (producto, sucursal).
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Params("productId")
	branchID := c.Params("branchId")
	qty, err := h.uc.GetBalance(c.Context(), productID, branchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, BranchID: branchID, Quantity: qty})
}

// GetProductCard devuelve el kardex del producto en la sucursal. Acepta
// from/to en formato 2006-01-02 por query string.
func (h *StockHandler) GetProductCard(c *fiber.Ctx) error {
	productID := c.Params("productId")
	branchID := c.Params("branchId")
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "from inválido, usar YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "to inválido, usar YYYY-MM-DD"})
	}
	card, err := h.uc.GetProductCard(c.Context(), productID, branchID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCardResponse(card))
}

func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		BranchID:   m.BranchID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPriceSnapshot,
		TransferID: m.TransferID,
		Notes:      m.Notes,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}
	if m.Ref != nil {
		out.Ref = &dto.ReferenceDTO{Kind: string(m.Ref.Kind), ID: m.Ref.ID}
	}
	return out
}

func toCardResponse(card *stock.ProductCard) dto.CardResponse {
	out := dto.CardResponse{
		ProductID:         card.ProductID,
		BranchID:          card.BranchID,
		From:              card.From,
		To:                card.To,
		OpeningBalance:    card.OpeningBalance,
		Rows:              make([]dto.CardRowResponse, 0, len(card.Rows)),
		ClosingBalance:    card.ClosingBalance,
		TotalAdditions:    card.Summary.TotalAdditions,
		TotalIssues:       card.Summary.TotalIssues,
		TotalReturns:      card.Summary.TotalReturns,
		TotalTransfersIn:  card.Summary.TotalTransfersIn,
		TotalTransfersOut: card.Summary.TotalTransfersOut,
		MovementsCount:    card.Summary.MovementsCount,
	}
	for _, row := range card.Rows {
		out.Rows = append(out.Rows, dto.CardRowResponse{
			Movement:       toMovementResponse(row.Movement),
			QtyIn:          row.QtyIn,
			QtyOut:         row.QtyOut,
			RunningBalance: row.RunningBalance,
		})
	}
	return out
}
