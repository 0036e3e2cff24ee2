package entity

import "time"

// Customer representa un cliente con cuenta corriente en el libro de clientes.
type Customer struct {
	ID             string
	Code           string
	Name           string
	Phone          string
	IsActive       bool
	LastActivityAt *time.Time // se actualiza con cada asiento
	CreatedAt      time.Time
}
