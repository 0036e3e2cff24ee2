package validation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ledger-pro/internal/domain"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
	"github.com/tu-usuario/ledger-pro/internal/domain/repository"
)

// ValidatorUseCase responde consultas de disponibilidad de stock. Todas las
// lecturas son sin bloqueo: el veredicto es orientativo y puede quedar viejo;
// la garantía dura la da el chequeo bajo FOR UPDATE al ejecutar la operación.
type ValidatorUseCase struct {
	products repository.ProductRepository
	branches repository.BranchRepository
	balances repository.StockBalanceRepository
}

// NewValidatorUseCase construye el caso de uso.
func NewValidatorUseCase(
	products repository.ProductRepository,
	branches repository.BranchRepository,
	balances repository.StockBalanceRepository,
) *ValidatorUseCase {
	return &ValidatorUseCase{products: products, branches: branches, balances: balances}
}

// ItemResult es el veredicto de disponibilidad para un (producto, sucursal).
type ItemResult struct {
	ProductID string
	BranchID  string
	Valid     bool
	Available decimal.Decimal
	Requested decimal.Decimal
	Shortage  decimal.Decimal // requested - available cuando falta; cero si alcanza
}

// ValidateItem verifica si la sucursal puede cubrir la cantidad solicitada.
func (uc *ValidatorUseCase) ValidateItem(ctx context.Context, productID, branchID string, requestedQty decimal.Decimal) (*ItemResult, error) {
	if !requestedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	balance, err := uc.balances.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	result := &ItemResult{
		ProductID: productID,
		BranchID:  branchID,
		Available: balance.CurrentQuantity,
		Requested: requestedQty,
		Shortage:  decimal.Zero,
	}
	if balance.CurrentQuantity.GreaterThanOrEqual(requestedQty) {
		result.Valid = true
	} else {
		result.Shortage = requestedQty.Sub(balance.CurrentQuantity)
	}
	return result, nil
}

// BatchItem es un renglón a validar en lote.
type BatchItem struct {
	ProductID string
	Quantity  decimal.Decimal
}

// BatchResult es el veredicto agregado de un lote: AND de los renglones.
type BatchResult struct {
	Valid        bool
	InvalidCount int
	Items        []*ItemResult
}

// ValidateBatch valida todos los renglones contra la misma sucursal. El lote
// es válido solo si todos los renglones lo son.
func (uc *ValidatorUseCase) ValidateBatch(ctx context.Context, items []BatchItem, branchID string) (*BatchResult, error) {
	result := &BatchResult{Valid: true, Items: make([]*ItemResult, 0, len(items))}
	for _, item := range items {
		r, err := uc.ValidateItem(ctx, item.ProductID, branchID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !r.Valid {
			result.Valid = false
			result.InvalidCount++
		}
		result.Items = append(result.Items, r)
	}
	return result, nil
}

// Tipos de sugerencia, en orden de preferencia.
const (
	SuggestTransfer = "transfer" // otra sucursal puede cubrir todo el pedido
	SuggestSplit    = "split"    // varias sucursales lo cubren entre todas
	SuggestReduce   = "reduce"   // hay algo de stock local, reducir la cantidad
	SuggestPurchase = "purchase" // no hay stock en ninguna parte, comprar
)

// BranchOption es una sucursal candidata dentro de una sugerencia.
type BranchOption struct {
	BranchID   string
	Available  decimal.Decimal
	CanFulfill bool
}

// Suggestion es una alternativa para resolver un faltante de stock.
type Suggestion struct {
	Type           string
	Branches       []BranchOption  // transfer y split
	TotalAvailable decimal.Decimal // split
	MaxAvailable   decimal.Decimal // reduce
	Requested      decimal.Decimal
	Shortage       decimal.Decimal // reduce
}

// Suggest propone alternativas cuando la sucursal no puede cubrir el pedido,
// en orden: traslado desde una sucursal que lo cubre sola, partición entre
// varias, reducción al stock local, y compra si no hay stock en ninguna parte.
func (uc *ValidatorUseCase) Suggest(ctx context.Context, productID, excludeBranchID string, requestedQty decimal.Decimal) ([]*Suggestion, error) {
	if !requestedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	all, err := uc.balances.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var suggestions []*Suggestion

	var fullCover []BranchOption
	var anyStock []BranchOption
	totalAvailable := decimal.Zero
	localStock := decimal.Zero
	for _, b := range all {
		if b.BranchID == excludeBranchID {
			localStock = b.CurrentQuantity
			continue
		}
		if !b.CurrentQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		opt := BranchOption{
			BranchID:   b.BranchID,
			Available:  b.CurrentQuantity,
			CanFulfill: b.CurrentQuantity.GreaterThanOrEqual(requestedQty),
		}
		anyStock = append(anyStock, opt)
		totalAvailable = totalAvailable.Add(b.CurrentQuantity)
		if opt.CanFulfill {
			fullCover = append(fullCover, opt)
		}
	}

	if len(fullCover) > 0 {
		suggestions = append(suggestions, &Suggestion{
			Type:      SuggestTransfer,
			Branches:  fullCover,
			Requested: requestedQty,
		})
	}
	if totalAvailable.GreaterThanOrEqual(requestedQty) && len(anyStock) > 1 {
		suggestions = append(suggestions, &Suggestion{
			Type:           SuggestSplit,
			Branches:       anyStock,
			TotalAvailable: totalAvailable,
			Requested:      requestedQty,
		})
	}
	if localStock.GreaterThan(decimal.Zero) {
		suggestions = append(suggestions, &Suggestion{
			Type:         SuggestReduce,
			MaxAvailable: localStock,
			Requested:    requestedQty,
			Shortage:     requestedQty.Sub(localStock),
		})
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, &Suggestion{
			Type:      SuggestPurchase,
			Requested: requestedQty,
		})
	}
	return suggestions, nil
}

// LowStock lista los saldos de la sucursal en o por debajo de su umbral
// (min_quantity > 0).
func (uc *ValidatorUseCase) LowStock(ctx context.Context, branchID string) ([]*entity.StockBalance, error) {
	if err := uc.checkBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return uc.balances.ListLowStock(ctx, branchID)
}

// OutOfStock lista los saldos agotados de la sucursal.
func (uc *ValidatorUseCase) OutOfStock(ctx context.Context, branchID string) ([]*entity.StockBalance, error) {
	if err := uc.checkBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return uc.balances.ListOutOfStock(ctx, branchID)
}

// SetMinQuantity configura el umbral de stock bajo de un (producto, sucursal).
func (uc *ValidatorUseCase) SetMinQuantity(ctx context.Context, productID, branchID string, min decimal.Decimal) error {
	if min.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	if err := uc.checkBranch(ctx, branchID); err != nil {
		return err
	}
	return uc.balances.SetMinQuantity(ctx, productID, branchID, min)
}

func (uc *ValidatorUseCase) checkBranch(ctx context.Context, branchID string) error {
	branch, err := uc.branches.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrBranchNotFound
	}
	return nil
}
