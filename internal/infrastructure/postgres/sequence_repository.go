package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implementación sobre PostgreSQL (usable con pool o tx).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

const sequenceColumns = `entity_type, year, last_number, prefix, min_value, max_value, increment_by, auto_reset`

// Get lee el contador sin bloquear. nil si no existe.
func (r *SequenceRepo) Get(ctx context.Context, entityType string, year int) (*entity.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE entity_type = $1 AND year = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, entityType, year))
}

// GetForUpdate bloquea la fila del contador hasta el fin de la transacción.
// nil si no existe (la numeración exige configuración explícita).
func (r *SequenceRepo) GetForUpdate(ctx context.Context, entityType string, year int) (*entity.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE entity_type = $1 AND year = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, entityType, year))
}

// UpdateLastNumber persiste el último número asignado. Requiere la fila bloqueada.
func (r *SequenceRepo) UpdateLastNumber(ctx context.Context, entityType string, year int, lastNumber int64) error {
	query := `UPDATE sequences SET last_number = $3 WHERE entity_type = $1 AND year = $2`
	_, err := r.q.Exec(ctx, query, entityType, year, lastNumber)
	if err != nil {
		return fmt.Errorf("update sequence: %w", err)
	}
	return nil
}

// Upsert crea o reconfigura el contador.
func (r *SequenceRepo) Upsert(ctx context.Context, seq *entity.Sequence) error {
	query := `
		INSERT INTO sequences (entity_type, year, last_number, prefix, min_value, max_value, increment_by, auto_reset)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (entity_type, year)
		DO UPDATE SET last_number = EXCLUDED.last_number, prefix = EXCLUDED.prefix,
		              min_value = EXCLUDED.min_value, max_value = EXCLUDED.max_value,
		              increment_by = EXCLUDED.increment_by, auto_reset = EXCLUDED.auto_reset`
	_, err := r.q.Exec(ctx, query,
		seq.EntityType, seq.Year, seq.LastNumber, seq.Prefix,
		seq.MinValue, seq.MaxValue, seq.IncrementBy, seq.AutoReset,
	)
	if err != nil {
		return fmt.Errorf("upsert sequence: %w", err)
	}
	return nil
}

func (r *SequenceRepo) scanOne(row pgx.Row) (*entity.Sequence, error) {
	var s entity.Sequence
	err := row.Scan(
		&s.EntityType, &s.Year, &s.LastNumber, &s.Prefix,
		&s.MinValue, &s.MaxValue, &s.IncrementBy, &s.AutoReset,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	return &s, nil
}
