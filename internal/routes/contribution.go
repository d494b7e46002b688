package routes

import (
	"net/http"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/investment"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func contributionInput(body contracts.ContributionRequest) (investment.ContributionInput, error) {
	investmentID, err := pkg.ParseULID(body.InvestmentID)
	if err != nil {
		return investment.ContributionInput{}, appErrors.NewValidationError("investment_id", "formato inválido")
	}
	date, err := parseOptionalDate("date", body.Date)
	if err != nil {
		return investment.ContributionInput{}, err
	}
	return investment.ContributionInput{
		InvestmentId: investmentID,
		InvestorName: body.InvestorName,
		Amount:       body.Amount,
		Date:         date,
		Category:     body.Category,
		Note:         body.Note,
	}, nil
}

func contributionFilters(c *gin.Context) (*investment.ContributionFilters, error) {
	investmentID, err := parseOptionalID("investment_id", c.Query("investment_id"))
	if err != nil {
		return nil, err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return nil, err
	}
	return &investment.ContributionFilters{
		InvestmentId: investmentID,
		InvestorName: c.Query("investor_name"),
		From:         from,
		To:           to,
	}, nil
}

func (h *Handler) CreateContribution(c *gin.Context) {
	var body contracts.ContributionRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := contributionInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	contribution, err := h.ContributionService.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ContributionSingleResponse{Contribution: contribution})
}

func (h *Handler) UpdateContribution(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.ContributionRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := contributionInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	contribution, err := h.ContributionService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ContributionSingleResponse{Contribution: contribution})
}

func (h *Handler) ListContributions(c *gin.Context) {
	filters, err := contributionFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)
	contributions, total, err := h.ContributionService.List(c.Request.Context(), filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(contributions, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetContribution(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	contribution, err := h.ContributionService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ContributionSingleResponse{Contribution: contribution})
}

func (h *Handler) DeleteContribution(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ContributionService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ExportContributions(c *gin.Context) {
	filters, err := contributionFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data, err := h.ContributionService.Export(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.sendXLSX(c, "contributions", data)
}

func (h *Handler) ImportContributions(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.ContributionService.Import(c.Request.Context(), filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ContributionSampleTemplate(c *gin.Context) {
	data, err := h.ContributionService.SampleTemplate()
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.sendXLSX(c, "contributions-template", data)
}
