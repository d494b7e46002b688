package routes

import (
	"net/http"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/bank"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) bindBankTransaction(c *gin.Context) (bank.Input, bool) {
	var body contracts.BankTransactionRequest
	if !h.bind(c, &body) {
		return bank.Input{}, false
	}

	date, err := pkg.ParseDate(body.Date)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("date", err.Error()))
		return bank.Input{}, false
	}

	return bank.Input{
		Date:        date,
		Type:        bank.Type(body.Type),
		Amount:      body.Amount,
		Description: body.Description,
		Reference:   body.Reference,
	}, true
}

func (h *Handler) CreateBankTransaction(c *gin.Context) {
	in, ok := h.bindBankTransaction(c)
	if !ok {
		return
	}

	tx, err := h.BankService.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *Handler) UpdateBankTransaction(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindBankTransaction(c)
	if !ok {
		return
	}

	tx, err := h.BankService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// ListBankTransactions devolve as movimentações em ordem cronológica com o
// saldo acumulado de cada linha.
func (h *Handler) ListBankTransactions(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)
	rows, total, err := h.BankService.List(c.Request.Context(), &bank.Filters{From: from, To: to}, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(rows, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetBankTransaction(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.BankService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *Handler) DeleteBankTransaction(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.BankService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetBankBalance(c *gin.Context) {
	balance, err := h.BankService.Balance(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.BankBalanceResponse{Balance: balance})
}
