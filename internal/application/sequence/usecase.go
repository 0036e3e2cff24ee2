package sequence

import (
	"context"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

// GeneratorUseCase asigna numeración de documentos por (tipo de entidad, año).
// Cada asignación es su propia transacción: el número queda reservado aunque
// la operación del caller falle después (huecos posibles, nunca duplicados).
type GeneratorUseCase struct {
	txRunner  repository.TxRunner
	sequences repository.SequenceRepository
}

// NewGeneratorUseCase construye el caso de uso.
func NewGeneratorUseCase(txRunner repository.TxRunner, sequences repository.SequenceRepository) *GeneratorUseCase {
	return &GeneratorUseCase{txRunner: txRunner, sequences: sequences}
}

// Next reserva y devuelve el próximo número formateado. Bloquea la fila del
// contador, avanza last_number (con clamp al mínimo del rango) y persiste en
// la misma transacción. Dos llamadas concurrentes nunca reciben el mismo número.
func (uc *GeneratorUseCase) Next(ctx context.Context, entityType string, year int) (string, error) {
	var formatted string
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		seq, err := r.Sequences.GetForUpdate(ctx, entityType, year)
		if err != nil {
			return err
		}
		if seq == nil {
			return domain.ErrSequenceNotFound
		}
		next := seq.LastNumber + seq.IncrementBy
		if next < seq.MinValue {
			next = seq.MinValue
		}
		if next > seq.MaxValue {
			return &domain.SequenceExhaustedError{
				EntityType: entityType,
				Year:       year,
				MaxValue:   seq.MaxValue,
			}
		}
		if err := r.Sequences.UpdateLastNumber(ctx, entityType, year, next); err != nil {
			return err
		}
		formatted = seq.Format(next)
		return nil
	})
	if err != nil {
		return "", err
	}
	return formatted, nil
}

// Peek devuelve el último número asignado formateado, sin avanzar el contador.
func (uc *GeneratorUseCase) Peek(ctx context.Context, entityType string, year int) (string, error) {
	seq, err := uc.sequences.Get(ctx, entityType, year)
	if err != nil {
		return "", err
	}
	if seq == nil {
		return "", domain.ErrSequenceNotFound
	}
	return seq.Format(seq.LastNumber), nil
}

// ConfigInput parámetros de configuración de un contador.
type ConfigInput struct {
	Prefix      string
	MinValue    int64
	MaxValue    int64
	IncrementBy int64
	AutoReset   bool
}

// Configure crea o reconfigura el contador del (tipo, año). En creación el
// contador arranca en min_value - increment para que el primer Next entregue
// min_value exacto.
func (uc *GeneratorUseCase) Configure(ctx context.Context, entityType string, year int, in ConfigInput) (*entity.Sequence, error) {
	if in.IncrementBy <= 0 || in.MinValue < 0 || in.MaxValue < in.MinValue {
		return nil, domain.ErrInvalidQuantity
	}
	var out *entity.Sequence
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Sequences.GetForUpdate(ctx, entityType, year)
		if err != nil {
			return err
		}
		seq := &entity.Sequence{
			EntityType:  entityType,
			Year:        year,
			LastNumber:  in.MinValue - in.IncrementBy,
			Prefix:      in.Prefix,
			MinValue:    in.MinValue,
			MaxValue:    in.MaxValue,
			IncrementBy: in.IncrementBy,
			AutoReset:   in.AutoReset,
		}
		if existing != nil {
			// Reconfigurar no retrocede la numeración ya asignada.
			seq.LastNumber = existing.LastNumber
		}
		if err := r.Sequences.Upsert(ctx, seq); err != nil {
			return err
		}
		out = seq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RolloverYear crea el contador del año indicado a partir de la configuración
// del año anterior, si aquel tiene auto_reset. Idempotente: si el año nuevo ya
// existe no hace nada.
func (uc *GeneratorUseCase) RolloverYear(ctx context.Context, entityType string, year int) (*entity.Sequence, error) {
	var out *entity.Sequence
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Sequences.Get(ctx, entityType, year)
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			return nil
		}
		prev, err := r.Sequences.GetForUpdate(ctx, entityType, year-1)
		if err != nil {
			return err
		}
		if prev == nil {
			return domain.ErrSequenceNotFound
		}
		if !prev.AutoReset {
			return domain.ErrSequenceNotFound
		}
		seq := &entity.Sequence{
			EntityType:  entityType,
			Year:        year,
			LastNumber:  prev.MinValue - prev.IncrementBy,
			Prefix:      prev.Prefix,
			MinValue:    prev.MinValue,
			MaxValue:    prev.MaxValue,
			IncrementBy: prev.IncrementBy,
			AutoReset:   prev.AutoReset,
		}
		if err := r.Sequences.Upsert(ctx, seq); err != nil {
			return err
		}
		out = seq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
