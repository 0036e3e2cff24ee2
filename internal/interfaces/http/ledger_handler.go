package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ledger-pro/internal/application/dto"
	"github.com/tu-usuario/ledger-pro/internal/application/ledger"
	"github.com/tu-usuario/ledger-pro/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro de clientes.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// AddEntry registra un asiento sobre el cliente.
func (h *LedgerHandler) AddEntry(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	var in dto.AddEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.EntryDate.IsZero() {
		in.EntryDate = time.Now()
	}
	entry, err := h.uc.AddEntry(c.Context(), customerID, ledger.EntryInput{
		EntryDate:   in.EntryDate,
		Description: in.Description,
		Debit:       in.Debit,
		Credit:      in.Credit,
		Ref:         entity.Reference{Kind: entity.ReferenceKind(in.Ref.Kind), ID: in.Ref.ID},
		Notes:       in.Notes,
		CreatedBy:   in.CreatedBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
}

// GetBalance devuelve el saldo del cliente, opcionalmente a una fecha (as_of).
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "as_of inválido, usar YYYY-MM-DD"})
	}
	balance, err := h.uc.Balance(c.Context(), customerID, asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceDTO{CustomerID: customerID, AsOf: asOf, Balance: balance})
}

// GetStatement devuelve el extracto del período (from y to obligatorios).
func (h *LedgerHandler) GetStatement(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	from, errFrom := parseDateQuery(c, "from")
	to, errTo := parseDateQuery(c, "to")
	if errFrom != nil || errTo != nil || from == nil || to == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "from y to son requeridos, usar YYYY-MM-DD"})
	}
	st, err := h.uc.Statement(c.Context(), customerID, *from, *to)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.StatementResponse{
		CustomerID:     st.CustomerID,
		From:           st.From,
		To:             st.To,
		OpeningBalance: st.OpeningBalance,
		Lines:          make([]dto.StatementLineResponse, 0, len(st.Lines)),
		ClosingBalance: st.ClosingBalance,
		PeriodDebit:    st.PeriodDebit,
		PeriodCredit:   st.PeriodCredit,
	}
	for _, line := range st.Lines {
		out.Lines = append(out.Lines, dto.StatementLineResponse{
			Entry:          toEntryResponse(line.Entry),
			RunningBalance: line.RunningBalance,
		})
	}
	return c.JSON(out)
}

// CorrectBalance lleva el saldo del cliente a un valor objetivo.
func (h *LedgerHandler) CorrectBalance(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	var in dto.CorrectBalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	entry, err := h.uc.CorrectBalance(c.Context(), customerID, in.TargetBalance, in.Reason, in.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
}

// GetBalancesReport devuelve el reporte de saldos de clientes. Query:
// only_with_balance=true|false, sort_by=name|balance|last_activity.
func (h *LedgerHandler) GetBalancesReport(c *fiber.Ctx) error {
	onlyWithBalance := c.QueryBool("only_with_balance", false)
	sortBy := c.Query("sort_by", ledger.SortByName)
	rows, err := h.uc.BalancesReport(c.Context(), onlyWithBalance, sortBy)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BalanceRowResponse{
			CustomerID:    r.CustomerID,
			Code:          r.Code,
			Name:          r.Name,
			Phone:         r.Phone,
			TotalDebit:    r.TotalDebit,
			TotalCredit:   r.TotalCredit,
			Balance:       r.Balance,
			Status:        r.Status,
			Activity:      r.Activity,
			EntryCount:    r.EntryCount,
			LastEntryDate: r.LastEntryDate,
		})
	}
	return c.JSON(out)
}

// GetStatistics devuelve los agregados globales del libro de clientes.
func (h *LedgerHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.uc.Statistics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatisticsResponse{
		TotalCustomers:  stats.TotalCustomers,
		DebtorCount:     stats.DebtorCount,
		CreditorCount:   stats.CreditorCount,
		ZeroCount:       stats.ZeroCount,
		TotalReceivable: stats.TotalReceivable,
		TotalPayable:    stats.TotalPayable,
		NetBalance:      stats.NetBalance,
	})
}

func toEntryResponse(e *entity.LedgerEntry) dto.EntryResponse {
	out := dto.EntryResponse{
		ID:          e.ID,
		CustomerID:  e.CustomerID,
		EntryDate:   e.EntryDate,
		Description: e.Description,
		Debit:       e.Debit,
		Credit:      e.Credit,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
	if e.Ref != nil {
		out.Ref = &dto.ReferenceDTO{Kind: string(e.Ref.Kind), ID: e.Ref.ID}
	}
	return out
}
