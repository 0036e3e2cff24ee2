package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Movements InventoryMovementRepository
	Balances  StockBalanceRepository
	Entries   LedgerEntryRepository
	Sequences SequenceRepository
	Customers CustomerRepository
	Products  ProductRepository
	Branches  BranchRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados
// a esa tx. Si fn devuelve error se hace rollback completo: ningún movimiento
// o asiento parcial queda persistido. Garantiza la atomicidad del core.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
