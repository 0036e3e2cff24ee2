package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ledger-pro/internal/application/ledger"
	"github.com/tu-usuario/ledger-pro/internal/application/sequence"
	"github.com/tu-usuario/ledger-pro/internal/application/stock"
	"github.com/tu-usuario/ledger-pro/internal/application/transfer"
	"github.com/tu-usuario/ledger-pro/internal/application/usecase"
	"github.com/tu-usuario/ledger-pro/internal/application/validation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BranchUC    *usecase.BranchUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	StockUC     *stock.LedgerUseCase
	TransferUC  *transfer.CoordinatorUseCase
	SequenceUC  *sequence.GeneratorUseCase
	LedgerUC    *ledger.UseCase
	ValidatorUC *validation.ValidatorUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Sucursales
	branches := api.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	// Productos
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Clientes
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Stock
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/issue", stockHandler.Issue)
	stockGroup.Post("/return", stockHandler.Return)
	stockGroup.Post("/add", stockHandler.Add)
	stockGroup.Post("/adjust", stockHandler.Adjust)
	stockGroup.Get("/balance/:productId/:branchId", stockHandler.GetBalance)
	stockGroup.Get("/card/:productId/:branchId", stockHandler.GetProductCard)

	// Traslados
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)

	// Numeración de documentos
	sequences := api.Group("/sequences")
	sequenceHandler := NewSequenceHandler(deps.SequenceUC)
	sequences.Post("/:entityType/:year/next", sequenceHandler.Next)
	sequences.Get("/:entityType/:year", sequenceHandler.Peek)
	sequences.Put("/:entityType/:year", sequenceHandler.Configure)
	sequences.Post("/:entityType/:year/rollover", sequenceHandler.Rollover)

	// Libro de clientes
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	api.Get("/ledger/report", ledgerHandler.GetBalancesReport)
	api.Get("/ledger/statistics", ledgerHandler.GetStatistics)
	ledgerGroup := api.Group("/ledger/:customerId")
	ledgerGroup.Post("/entries", ledgerHandler.AddEntry)
	ledgerGroup.Get("/balance", ledgerHandler.GetBalance)
	ledgerGroup.Get("/statement", ledgerHandler.GetStatement)
	ledgerGroup.Post("/corrections", ledgerHandler.CorrectBalance)

	// Validación de disponibilidad
	validationGroup := api.Group("/validation")
	validationHandler := NewValidationHandler(deps.ValidatorUC)
	validationGroup.Post("/item", validationHandler.ValidateItem)
	validationGroup.Post("/batch", validationHandler.ValidateBatch)
	validationGroup.Post("/suggestions", validationHandler.Suggest)
	validationGroup.Get("/low-stock/:branchId", validationHandler.LowStock)
	validationGroup.Get("/out-of-stock/:branchId", validationHandler.OutOfStock)
	validationGroup.Put("/min-quantity", validationHandler.SetMinQuantity)
}
