package routes

import (
	"net/http"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/investor"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func investorInput(body contracts.InvestorRequest) investor.Input {
	return investor.Input{
		Name:  body.Name,
		Phone: body.Phone,
		Email: body.Email,
		Note:  body.Note,
	}
}

func (h *Handler) CreateInvestor(c *gin.Context) {
	var body contracts.InvestorRequest
	if !h.bind(c, &body) {
		return
	}

	entity, err := h.InvestorService.Create(c.Request.Context(), investorInput(body))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity)
}

func (h *Handler) UpdateInvestor(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.InvestorRequest
	if !h.bind(c, &body) {
		return
	}

	entity, err := h.InvestorService.Update(c.Request.Context(), id, investorInput(body))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) ListInvestors(c *gin.Context) {
	pagination := h.parsePagination(c)
	investors, total, err := h.InvestorService.List(c.Request.Context(), c.Query("search"), pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(investors, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetInvestor(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entity, err := h.InvestorService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) DeleteInvestor(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.InvestorService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
