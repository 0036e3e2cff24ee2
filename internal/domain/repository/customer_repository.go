package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	// TouchActivity actualiza last_activity_at tras registrar un asiento.
	TouchActivity(ctx context.Context, id string, at time.Time) error
}
