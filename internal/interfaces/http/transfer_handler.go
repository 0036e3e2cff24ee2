package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ledger-pro/internal/application/dto"
	"github.com/tu-usuario/ledger-pro/internal/application/transfer"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de traslados entre sucursales.
type TransferHandler struct {
	uc *transfer.CoordinatorUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.CoordinatorUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create ejecuta un traslado atómico entre dos sucursales.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.FromBranchID == "" || in.ToBranchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, from_branch_id y to_branch_id son requeridos"})
	}
	result, err := h.uc.Transfer(c.Context(), in.ProductID, in.FromBranchID, in.ToBranchID, in.Quantity, transfer.TransferInput{
		Note:      in.Note,
		Ref:       entity.Reference{Kind: entity.ReferenceKind(in.Ref.Kind), ID: in.Ref.ID},
		CreatedBy: in.CreatedBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		TransferID:  result.TransferID,
		OutMovement: toMovementResponse(result.OutMovement),
		InMovement:  toMovementResponse(result.InMovement),
	})
}

// GetByID devuelve el par de movimientos de un traslado.
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	transferID := c.Params("id")
	movements, err := h.uc.GetByTransferID(c.Context(), transferID)
	if err != nil {
		return respondError(c, err)
	}
	if len(movements) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "traslado no encontrado"})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}
