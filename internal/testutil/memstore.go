// Package testutil provee repositorios en memoria con semántica transaccional
// (snapshot y rollback) para probar los casos de uso sin PostgreSQL. El mutex
// del store serializa las transacciones igual que lo harían los locks de fila.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

// ErrInjected es el error devuelto por los puntos de fallo configurados.
var ErrInjected = errors.New("fallo inyectado")

// Store guarda todo el estado en memoria. Las operaciones directas (fuera de
// transacción) toman el mutex por llamada; dentro de TxRunner.Run el mutex se
// sostiene durante toda la transacción.
type Store struct {
	mu sync.Mutex

	branches  map[string]*entity.Branch
	products  map[string]*entity.Product
	customers map[string]*entity.Customer
	balances  map[string]*entity.StockBalance
	movements []*entity.InventoryMovement
	entries   []*entity.LedgerEntry
	sequences map[string]*entity.Sequence

	nextMovementID int64
	nextEntryID    int64

	movementCreates      int
	failMovementCreateAt int // 1-based: falla el n-ésimo Create de movimiento
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		branches:  map[string]*entity.Branch{},
		products:  map[string]*entity.Product{},
		customers: map[string]*entity.Customer{},
		balances:  map[string]*entity.StockBalance{},
		sequences: map[string]*entity.Sequence{},
	}
}

// FailOnMovementCreate hace fallar el n-ésimo Create de movimiento (1-based)
// con ErrInjected. Cero desactiva el punto de fallo.
func (s *Store) FailOnMovementCreate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMovementCreateAt = n
	s.movementCreates = 0
}

// Repos devuelve el juego de repositorios para uso directo (cada llamada toma
// el mutex por su cuenta).
func (s *Store) Repos() repository.Repos {
	return s.repos(true)
}

func (s *Store) repos(lock bool) repository.Repos {
	return repository.Repos{
		Movements: memMovements{s: s, lock: lock},
		Balances:  memBalances{s: s, lock: lock},
		Entries:   memEntries{s: s, lock: lock},
		Sequences: memSequences{s: s, lock: lock},
		Customers: memCustomers{s: s, lock: lock},
		Products:  memProducts{s: s, lock: lock},
		Branches:  memBranches{s: s, lock: lock},
	}
}

// TxRunner implementación en memoria de repository.TxRunner: toma el mutex
// por toda la transacción, saca un snapshot y lo restaura si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos sin lock propio (el mutex ya está tomado) y
// revierte todo el estado si fn devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot := r.s.clone()
	if err := fn(r.s.repos(false)); err != nil {
		r.s.restore(snapshot)
		return err
	}
	return nil
}

type storeState struct {
	branches  map[string]*entity.Branch
	products  map[string]*entity.Product
	customers map[string]*entity.Customer
	balances  map[string]*entity.StockBalance
	movements []*entity.InventoryMovement
	entries   []*entity.LedgerEntry
	sequences map[string]*entity.Sequence

	nextMovementID int64
	nextEntryID    int64
}

func (s *Store) clone() storeState {
	st := storeState{
		branches:       make(map[string]*entity.Branch, len(s.branches)),
		products:       make(map[string]*entity.Product, len(s.products)),
		customers:      make(map[string]*entity.Customer, len(s.customers)),
		balances:       make(map[string]*entity.StockBalance, len(s.balances)),
		movements:      make([]*entity.InventoryMovement, len(s.movements)),
		entries:        make([]*entity.LedgerEntry, len(s.entries)),
		sequences:      make(map[string]*entity.Sequence, len(s.sequences)),
		nextMovementID: s.nextMovementID,
		nextEntryID:    s.nextEntryID,
	}
	for k, v := range s.branches {
		c := *v
		st.branches[k] = &c
	}
	for k, v := range s.products {
		c := *v
		st.products[k] = &c
	}
	for k, v := range s.customers {
		c := *v
		st.customers[k] = &c
	}
	for k, v := range s.balances {
		c := *v
		st.balances[k] = &c
	}
	for i, v := range s.movements {
		c := *v
		st.movements[i] = &c
	}
	for i, v := range s.entries {
		c := *v
		st.entries[i] = &c
	}
	for k, v := range s.sequences {
		c := *v
		st.sequences[k] = &c
	}
	return st
}

func (s *Store) restore(st storeState) {
	s.branches = st.branches
	s.products = st.products
	s.customers = st.customers
	s.balances = st.balances
	s.movements = st.movements
	s.entries = st.entries
	s.sequences = st.sequences
	s.nextMovementID = st.nextMovementID
	s.nextEntryID = st.nextEntryID
}

func balKey(productID, branchID string) string  { return productID + "|" + branchID }
func seqKey(entityType string, year int) string { return entityType + "|" + strconv.Itoa(year) }

// --- sucursales ---

type memBranches struct {
	s    *Store
	lock bool
}

var _ repository.BranchRepository = memBranches{}

func (r memBranches) Create(_ context.Context, b *entity.Branch) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.branches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *b
	r.s.branches[b.ID] = &c
	return nil
}

func (r memBranches) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	b, ok := r.s.branches[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r memBranches) List(_ context.Context, limit, offset int) ([]*entity.Branch, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var all []*entity.Branch
	for _, b := range r.s.branches {
		c := *b
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// --- productos ---

type memProducts struct {
	s    *Store
	lock bool
}

var _ repository.ProductRepository = memProducts{}

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r memProducts) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var all []*entity.Product
	for _, p := range r.s.products {
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// --- clientes ---

type memCustomers struct {
	s    *Store
	lock bool
}

var _ repository.CustomerRepository = memCustomers{}

func (r memCustomers) Create(_ context.Context, c *entity.Customer) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.customers {
		if existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r memCustomers) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var all []*entity.Customer
	for _, c := range r.s.customers {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

func (r memCustomers) TouchActivity(_ context.Context, id string, at time.Time) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if c, ok := r.s.customers[id]; ok {
		t := at
		c.LastActivityAt = &t
	}
	return nil
}

// --- saldos de stock ---

type memBalances struct {
	s    *Store
	lock bool
}

var _ repository.StockBalanceRepository = memBalances{}

func (r memBalances) Get(_ context.Context, productID, branchID string) (*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	b, ok := r.s.balances[balKey(productID, branchID)]
	if !ok {
		return &entity.StockBalance{
			ProductID:       productID,
			BranchID:        branchID,
			CurrentQuantity: decimal.Zero,
			MinQuantity:     decimal.Zero,
		}, nil
	}
	c := *b
	return &c, nil
}

func (r memBalances) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	key := balKey(productID, branchID)
	if _, ok := r.s.balances[key]; !ok {
		r.s.balances[key] = &entity.StockBalance{
			ProductID:       productID,
			BranchID:        branchID,
			CurrentQuantity: decimal.Zero,
			MinQuantity:     decimal.Zero,
		}
	}
	c := *r.s.balances[key]
	return &c, nil
}

func (r memBalances) UpdateQuantity(_ context.Context, productID, branchID string, qty decimal.Decimal) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	b, ok := r.s.balances[balKey(productID, branchID)]
	if !ok {
		return domain.ErrNotFound
	}
	b.CurrentQuantity = qty
	b.UpdatedAt = time.Now()
	return nil
}

func (r memBalances) ListByProduct(_ context.Context, productID string) ([]*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*entity.StockBalance
	for _, b := range r.s.balances {
		if b.ProductID == productID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchID < out[j].BranchID })
	return out, nil
}

func (r memBalances) ListLowStock(_ context.Context, branchID string) ([]*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*entity.StockBalance
	for _, b := range r.s.balances {
		if b.BranchID == branchID && b.MinQuantity.IsPositive() && b.CurrentQuantity.LessThanOrEqual(b.MinQuantity) {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r memBalances) ListOutOfStock(_ context.Context, branchID string) ([]*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*entity.StockBalance
	for _, b := range r.s.balances {
		if b.BranchID == branchID && !b.CurrentQuantity.IsPositive() {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r memBalances) SetMinQuantity(_ context.Context, productID, branchID string, min decimal.Decimal) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	key := balKey(productID, branchID)
	if _, ok := r.s.balances[key]; !ok {
		r.s.balances[key] = &entity.StockBalance{
			ProductID:       productID,
			BranchID:        branchID,
			CurrentQuantity: decimal.Zero,
		}
	}
	r.s.balances[key].MinQuantity = min
	return nil
}

// --- movimientos ---

type memMovements struct {
	s    *Store
	lock bool
}

var _ repository.InventoryMovementRepository = memMovements{}

func (r memMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.movementCreates++
	if r.s.failMovementCreateAt > 0 && r.s.movementCreates == r.s.failMovementCreateAt {
		return ErrInjected
	}
	r.s.nextMovementID++
	m.ID = r.s.nextMovementID
	m.CreatedAt = time.Now()
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r memMovements) ListByProductBranch(_ context.Context, productID, branchID string, from, to *time.Time) ([]*entity.InventoryMovement, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID != productID || m.BranchID != branchID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memMovements) SumSignedBefore(_ context.Context, productID, branchID string, before *time.Time) (decimal.Decimal, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ProductID != productID || m.BranchID != branchID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		sum = sum.Add(m.SignedQuantity())
	}
	return sum, nil
}

func (r memMovements) ListByTransferID(_ context.Context, transferID string) ([]*entity.InventoryMovement, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.TransferID != nil && *m.TransferID == transferID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- asientos del libro ---

type memEntries struct {
	s    *Store
	lock bool
}

var _ repository.LedgerEntryRepository = memEntries{}

func (r memEntries) Create(_ context.Context, e *entity.LedgerEntry) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.nextEntryID++
	e.ID = r.s.nextEntryID
	e.CreatedAt = time.Now()
	c := *e
	r.s.entries = append(r.s.entries, &c)
	return nil
}

func (r memEntries) SumDebitCredit(_ context.Context, customerID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range r.s.entries {
		if e.CustomerID != customerID {
			continue
		}
		if asOf != nil && e.EntryDate.After(*asOf) {
			continue
		}
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit, nil
}

func (r memEntries) ListByCustomer(_ context.Context, customerID string, from, to time.Time) ([]*entity.LedgerEntry, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.CustomerID != customerID {
			continue
		}
		if e.EntryDate.Before(from) || e.EntryDate.After(to) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memEntries) BalancesSummary(_ context.Context) ([]*repository.CustomerLedgerSummary, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var out []*repository.CustomerLedgerSummary
	for _, c := range r.s.customers {
		if !c.IsActive {
			continue
		}
		summary := &repository.CustomerLedgerSummary{
			CustomerID:     c.ID,
			Code:           c.Code,
			Name:           c.Name,
			Phone:          c.Phone,
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
			LastActivityAt: c.LastActivityAt,
		}
		for _, e := range r.s.entries {
			if e.CustomerID != c.ID {
				continue
			}
			summary.TotalDebit = summary.TotalDebit.Add(e.Debit)
			summary.TotalCredit = summary.TotalCredit.Add(e.Credit)
			summary.EntryCount++
			if summary.LastEntryDate == nil || e.EntryDate.After(*summary.LastEntryDate) {
				d := e.EntryDate
				summary.LastEntryDate = &d
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- secuencias ---

type memSequences struct {
	s    *Store
	lock bool
}

var _ repository.SequenceRepository = memSequences{}

func (r memSequences) Get(_ context.Context, entityType string, year int) (*entity.Sequence, error) {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	seq, ok := r.s.sequences[seqKey(entityType, year)]
	if !ok {
		return nil, nil
	}
	c := *seq
	return &c, nil
}

func (r memSequences) GetForUpdate(ctx context.Context, entityType string, year int) (*entity.Sequence, error) {
	return r.Get(ctx, entityType, year)
}

func (r memSequences) UpdateLastNumber(_ context.Context, entityType string, year int, lastNumber int64) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	seq, ok := r.s.sequences[seqKey(entityType, year)]
	if !ok {
		return domain.ErrSequenceNotFound
	}
	seq.LastNumber = lastNumber
	return nil
}

func (r memSequences) Upsert(_ context.Context, seq *entity.Sequence) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	c := *seq
	r.s.sequences[seqKey(seq.EntityType, seq.Year)] = &c
	return nil
}

func paginate[T any](all []*T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
