package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ledger-pro/internal/application/dto"
	"github.com/tu-usuario/ledger-pro/internal/application/sequence"
)

// SequenceHandler maneja las peticiones HTTP de numeración de documentos.
type SequenceHandler struct {
	uc *sequence.GeneratorUseCase
}

// NewSequenceHandler construye el handler.
func NewSequenceHandler(uc *sequence.GeneratorUseCase) *SequenceHandler {
	return &SequenceHandler{uc: uc}
}

// Next reserva y devuelve el próximo número del (tipo, año).
func (h *SequenceHandler) Next(c *fiber.Ctx) error {
	entityType, year, ok := h.params(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entity_type y year son requeridos"})
	}
	number, err := h.uc.Next(c.Context(), entityType, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NumberResponse{EntityType: entityType, Year: year, Number: number})
}

// Peek devuelve el último número asignado sin avanzar el contador.
func (h *SequenceHandler) Peek(c *fiber.Ctx) error {
	entityType, year, ok := h.params(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entity_type y year son requeridos"})
	}
	number, err := h.uc.Peek(c.Context(), entityType, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NumberResponse{EntityType: entityType, Year: year, Number: number})
}

// Configure crea o reconfigura el contador del (tipo, año).
func (h *SequenceHandler) Configure(c *fiber.Ctx) error {
	entityType, year, ok := h.params(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entity_type y year son requeridos"})
	}
	var in dto.ConfigureSequenceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	seq, err := h.uc.Configure(c.Context(), entityType, year, sequence.ConfigInput{
		Prefix:      in.Prefix,
		MinValue:    in.MinValue,
		MaxValue:    in.MaxValue,
		IncrementBy: in.IncrementBy,
		AutoReset:   in.AutoReset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SequenceResponse{
		EntityType:  seq.EntityType,
		Year:        seq.Year,
		LastNumber:  seq.LastNumber,
		Prefix:      seq.Prefix,
		MinValue:    seq.MinValue,
		MaxValue:    seq.MaxValue,
		IncrementBy: seq.IncrementBy,
		AutoReset:   seq.AutoReset,
		Remaining:   seq.Remaining(),
	})
}

// Rollover crea el contador del año indicado desde la configuración del año anterior.
func (h *SequenceHandler) Rollover(c *fiber.Ctx) error {
	entityType, year, ok := h.params(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entity_type y year son requeridos"})
	}
	seq, err := h.uc.RolloverYear(c.Context(), entityType, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SequenceResponse{
		EntityType:  seq.EntityType,
		Year:        seq.Year,
		LastNumber:  seq.LastNumber,
		Prefix:      seq.Prefix,
		MinValue:    seq.MinValue,
		MaxValue:    seq.MaxValue,
		IncrementBy: seq.IncrementBy,
		AutoReset:   seq.AutoReset,
		Remaining:   seq.Remaining(),
	})
}

func (h *SequenceHandler) params(c *fiber.Ctx) (string, int, bool) {
	entityType := c.Params("entityType")
	year, err := strconv.Atoi(c.Params("year"))
	if entityType == "" || err != nil || year <= 0 {
		return "", 0, false
	}
	return entityType, year, true
}
