package routes

import (
	"net/http"
	"strings"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/billing"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func billInput(body contracts.BillRequest) (billing.Input, error) {
	items := make([]billing.ItemInput, 0, len(body.Items))
	for _, it := range body.Items {
		refID, err := parseOptionalID("ref_id", it.RefID)
		if err != nil {
			return billing.Input{}, err
		}
		items = append(items, billing.ItemInput{
			Kind:        billing.ItemKind(it.Kind),
			RefId:       refID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	issuedAt, err := parseOptionalDate("issued_at", body.IssuedAt)
	if err != nil {
		return billing.Input{}, err
	}

	return billing.Input{
		PatientName:   body.PatientName,
		Items:         items,
		DiscountType:  billing.DiscountType(body.DiscountType),
		DiscountValue: body.DiscountValue,
		PaidAmount:    body.PaidAmount,
		IssuedAt:      issuedAt,
		Note:          body.Note,
	}, nil
}

func (h *Handler) bindBill(c *gin.Context) (billing.Input, bool) {
	var body contracts.BillRequest
	if !h.bind(c, &body) {
		return billing.Input{}, false
	}
	in, err := billInput(body)
	if err != nil {
		h.respondError(c, err)
		return billing.Input{}, false
	}
	return in, true
}

func (h *Handler) CreateBill(c *gin.Context) {
	in, ok := h.bindBill(c)
	if !ok {
		return
	}

	bill, err := h.BillingService.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bill)
}

func (h *Handler) PreviewBill(c *gin.Context) {
	in, ok := h.bindBill(c)
	if !ok {
		return
	}

	bill, err := h.BillingService.Preview(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

func (h *Handler) UpdateBill(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindBill(c)
	if !ok {
		return
	}

	bill, err := h.BillingService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

func (h *Handler) PayBill(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.BillPaymentRequest
	if !h.bind(c, &body) {
		return
	}

	bill, err := h.BillingService.Pay(c.Request.Context(), id, body.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

func (h *Handler) ListBills(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters := &billing.Filters{
		Status: billing.Status(strings.ToUpper(c.Query("status"))),
		Search: c.Query("search"),
		From:   from,
		To:     to,
	}

	pagination := h.parsePagination(c)
	bills, total, err := h.BillingService.List(c.Request.Context(), filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(bills, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetBill(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	bill, err := h.BillingService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

func (h *Handler) DeleteBill(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.BillingService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
