package repository

import (
	"context"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// SequenceRepository define el puerto de persistencia para los contadores de
// numeración por (tipo de entidad, año).
type SequenceRepository interface {
	// Get lee el contador sin bloquear (solo lectura / Peek). nil si no existe.
	Get(ctx context.Context, entityType string, year int) (*entity.Sequence, error)
	// GetForUpdate bloquea la fila del contador (FOR UPDATE) por el resto de
	// la transacción. nil si no existe.
	GetForUpdate(ctx context.Context, entityType string, year int) (*entity.Sequence, error)
	// UpdateLastNumber persiste el último número asignado. El caller debe
	// tener la fila bloqueada.
	UpdateLastNumber(ctx context.Context, entityType string, year int, lastNumber int64) error
	// Upsert crea o reconfigura el contador (prefijo, rango, incremento).
	Upsert(ctx context.Context, seq *entity.Sequence) error
}
