package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ledger-pro/internal/application/dto"
	"github.com/tu-usuario/ledger-pro/internal/application/validation"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// ValidationHandler maneja las consultas de disponibilidad de stock.
type ValidationHandler struct {
	uc *validation.ValidatorUseCase
}

// NewValidationHandler construye el handler.
func NewValidationHandler(uc *validation.ValidatorUseCase) *ValidationHandler {
	return &ValidationHandler{uc: uc}
}

// ValidateItem verifica si la sucursal cubre la cantidad solicitada.
func (h *ValidationHandler) ValidateItem(c *fiber.Ctx) error {
	var in dto.ValidateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.ValidateItem(c.Context(), in.ProductID, in.BranchID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toItemResultResponse(result))
}

// ValidateBatch valida un lote de renglones contra una sucursal.
func (h *ValidationHandler) ValidateBatch(c *fiber.Ctx) error {
	var in dto.ValidateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items no puede estar vacío"})
	}
	items := make([]validation.BatchItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, validation.BatchItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	result, err := h.uc.ValidateBatch(c.Context(), items, in.BranchID)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.BatchResultResponse{
		Valid:        result.Valid,
		InvalidCount: result.InvalidCount,
		Items:        make([]dto.ItemResultResponse, 0, len(result.Items)),
	}
	for _, r := range result.Items {
		out.Items = append(out.Items, toItemResultResponse(r))
	}
	return c.JSON(out)
}

// Suggest propone alternativas para un faltante de stock.
func (h *ValidationHandler) Suggest(c *fiber.Ctx) error {
	var in dto.ValidateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	suggestions, err := h.uc.Suggest(c.Context(), in.ProductID, in.BranchID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp := dto.SuggestionResponse{
			Type:           s.Type,
			TotalAvailable: s.TotalAvailable,
			MaxAvailable:   s.MaxAvailable,
			Requested:      s.Requested,
			Shortage:       s.Shortage,
		}
		for _, b := range s.Branches {
			resp.Branches = append(resp.Branches, dto.BranchOptionResponse{
				BranchID:   b.BranchID,
				Available:  b.Available,
				CanFulfill: b.CanFulfill,
			})
		}
		out = append(out, resp)
	}
	return c.JSON(out)
}

// LowStock lista los saldos de la sucursal en o por debajo de su umbral.
func (h *ValidationHandler) LowStock(c *fiber.Ctx) error {
	return h.balanceReport(c, h.uc.LowStock)
}

// OutOfStock lista los saldos agotados de la sucursal.
func (h *ValidationHandler) OutOfStock(c *fiber.Ctx) error {
	return h.balanceReport(c, h.uc.OutOfStock)
}

type balanceReportOp func(ctx context.Context, branchID string) ([]*entity.StockBalance, error)

func (h *ValidationHandler) balanceReport(c *fiber.Ctx, op balanceReportOp) error {
	branchID := c.Params("branchId")
	balances, err := op(c.Context(), branchID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{
			ProductID: b.ProductID,
			BranchID:  b.BranchID,
			Quantity:  b.CurrentQuantity,
			MinQty:    b.MinQuantity,
		})
	}
	return c.JSON(out)
}

// SetMinQuantity configura el umbral de stock bajo de un (producto, sucursal).
func (h *ValidationHandler) SetMinQuantity(c *fiber.Ctx) error {
	var in dto.SetMinQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetMinQuantity(c.Context(), in.ProductID, in.BranchID, in.MinQty); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toItemResultResponse(r *validation.ItemResult) dto.ItemResultResponse {
	return dto.ItemResultResponse{
		ProductID: r.ProductID,
		BranchID:  r.BranchID,
		Valid:     r.Valid,
		Available: r.Available,
		Requested: r.Requested,
		Shortage:  r.Shortage,
	}
}
