package entity

import "time"

// Branch representa una sucursal (punto de stock propio).
type Branch struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
