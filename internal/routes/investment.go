package routes

import (
	"net/http"
	"strings"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/investment"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func toShareInputs(shares []contracts.ShareRequest) ([]investment.ShareInput, error) {
	out := make([]investment.ShareInput, 0, len(shares))
	for _, s := range shares {
		investorID, err := parseOptionalID("investor_id", s.InvestorID)
		if err != nil {
			return nil, err
		}
		out = append(out, investment.ShareInput{
			InvestorId:      investorID,
			Name:            s.Name,
			SharePercentage: s.SharePercentage,
		})
	}
	return out, nil
}

func (h *Handler) CreateInvestment(c *gin.Context) {
	var body contracts.InvestmentCreateRequest
	if !h.bind(c, &body) {
		return
	}

	shares, err := toShareInputs(body.Shares)
	if err != nil {
		h.respondError(c, err)
		return
	}
	startDate, err := parseOptionalDate("start_date", body.StartDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	endDate, err := parseOptionalDate("end_date", body.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	inv, err := h.InvestmentService.CreateInvestment(c.Request.Context(), investment.CreateInput{
		Title:        body.Title,
		Category:     body.Category,
		Amount:       body.Amount,
		InvestorName: body.InvestorName,
		Shares:       shares,
		Status:       investment.Status(body.Status),
		StartDate:    startDate,
		EndDate:      endDate,
		Note:         body.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, InvestmentCreateResponse{
		Message:    "Investimento criado com sucesso",
		Investment: inv,
	})
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.InvestmentUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	in := investment.UpdateInput{
		Title:        body.Title,
		Category:     body.Category,
		Amount:       body.Amount,
		InvestorName: body.InvestorName,
		Note:         body.Note,
	}
	if body.Status != nil {
		status := investment.Status(*body.Status)
		in.Status = &status
	}
	if body.Shares != nil {
		shares, err := toShareInputs(*body.Shares)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.Shares = &shares
	}
	if body.StartDate != nil {
		date, err := parseOptionalDate("start_date", *body.StartDate)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.StartDate = date
	}
	if body.EndDate != nil {
		date, err := parseOptionalDate("end_date", *body.EndDate)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.EndDate = date
	}

	inv, err := h.InvestmentService.UpdateInvestment(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, InvestmentSingleResponse{Investment: inv})
}

func (h *Handler) ListInvestments(c *gin.Context) {
	filters := &investment.Filters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if status := strings.ToUpper(c.Query("status")); status != "" && status != "ALL" {
		filters.Status = investment.Status(status)
	}

	pagination := h.parsePagination(c)
	investments, total, err := h.InvestmentService.ListInvestments(c.Request.Context(), filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(investments, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.InvestmentService.GetInvestment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, InvestmentSingleResponse{Investment: inv})
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.InvestmentService.DeleteInvestment(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) BulkDeleteInvestments(c *gin.Context) {
	var body contracts.BulkDeleteRequest
	if !h.bind(c, &body) {
		return
	}

	ids := make([]ulid.ULID, 0, len(body.IDs))
	for _, raw := range body.IDs {
		id, err := pkg.ParseULID(raw)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("ids", "formato inválido: "+raw))
			return
		}
		ids = append(ids, id)
	}

	deleted, err := h.InvestmentService.BulkDelete(c.Request.Context(), ids)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.BulkDeleteResponse{
		Message: "Investimentos removidos",
		Deleted: deleted,
	})
}

func (h *Handler) RecapitalizeInvestments(c *gin.Context) {
	var body contracts.RecapitalizeRequest
	if !h.bind(c, &body) {
		return
	}

	investments, err := h.InvestmentService.Recapitalize(c.Request.Context(), body.TotalCapital)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecapitalizeResponse{
		Message:     "Capital redistribuído",
		Investments: investments,
	})
}

func (h *Handler) NormalizeShares(c *gin.Context) {
	var body contracts.NormalizeRequest
	if !h.bind(c, &body) {
		return
	}

	shares, err := toShareInputs(body.Shares)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NormalizeResponse{
		Shares: h.InvestmentService.Preview(body.Total, shares),
	})
}

func (h *Handler) GetLedger(c *gin.Context) {
	var investmentID *ulid.ULID
	if c.Param("id") != "" {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		investmentID = &id
	}

	ledger, err := h.InvestmentService.Ledger(c.Request.Context(), investmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}
