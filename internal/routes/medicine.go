package routes

import (
	"net/http"
	"strconv"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/medicine"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func medicineInput(body contracts.MedicineRequest) (medicine.Input, error) {
	expiry, err := parseOptionalDate("expiry_date", body.ExpiryDate)
	if err != nil {
		return medicine.Input{}, err
	}
	return medicine.Input{
		Name:         body.Name,
		Category:     body.Category,
		Unit:         body.Unit,
		Stock:        body.Stock,
		ReorderLevel: body.ReorderLevel,
		UnitPrice:    body.UnitPrice,
		ExpiryDate:   expiry,
		Supplier:     body.Supplier,
	}, nil
}

func (h *Handler) CreateMedicine(c *gin.Context) {
	var body contracts.MedicineRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := medicineInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity, err := h.MedicineService.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity)
}

func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.MedicineRequest
	if !h.bind(c, &body) {
		return
	}

	in, err := medicineInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity, err := h.MedicineService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) ListMedicines(c *gin.Context) {
	filters := &medicine.Filters{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	if raw := c.Query("low_stock"); raw != "" {
		low, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("low_stock", "deve ser true ou false"))
			return
		}
		filters.LowStock = low
	}

	pagination := h.parsePagination(c)
	medicines, total, err := h.MedicineService.List(c.Request.Context(), filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(medicines, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetMedicine(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entity, err := h.MedicineService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) DeleteMedicine(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.MedicineService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AdjustMedicineStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.StockAdjustRequest
	if !h.bind(c, &body) {
		return
	}

	entity, err := h.MedicineService.AdjustStock(c.Request.Context(), id, body.Delta)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) LowStockMedicines(c *gin.Context) {
	medicines, err := h.MedicineService.LowStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medicines})
}

func (h *Handler) ExpiringMedicines(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		h.respondError(c, appErrors.NewValidationError("days", "deve ser um inteiro não negativo"))
		return
	}

	medicines, err := h.MedicineService.ExpiringWithin(c.Request.Context(), days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medicines})
}

func (h *Handler) ExportMedicines(c *gin.Context) {
	data, err := h.MedicineService.Export(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.sendXLSX(c, "medicines", data)
}

func (h *Handler) ImportMedicines(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.MedicineService.Import(c.Request.Context(), filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) MedicineSampleTemplate(c *gin.Context) {
	data, err := h.MedicineService.SampleTemplate()
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.sendXLSX(c, "medicines-template", data)
}
