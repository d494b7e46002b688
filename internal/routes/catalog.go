package routes

import (
	"net/http"
	"strconv"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/catalog"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Os handlers do catálogo são fabricados por tipo: /services e
// /injections compartilham o mesmo código.

func serviceItemInput(body contracts.ServiceItemRequest) catalog.Input {
	return catalog.Input{
		Name:     body.Name,
		Category: body.Category,
		Price:    body.Price,
		Active:   body.Active,
	}
}

func (h *Handler) CreateServiceItem(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body contracts.ServiceItemRequest
		if !h.bind(c, &body) {
			return
		}

		item, err := h.CatalogService.Create(c.Request.Context(), kind, serviceItemInput(body))
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

func (h *Handler) UpdateServiceItem(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}

		var body contracts.ServiceItemRequest
		if !h.bind(c, &body) {
			return
		}

		item, err := h.CatalogService.Update(c.Request.Context(), kind, id, serviceItemInput(body))
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func (h *Handler) ListServiceItems(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := &catalog.Filters{Kind: kind, Search: c.Query("search")}
		if raw := c.Query("active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				h.respondError(c, appErrors.NewValidationError("active", "deve ser true ou false"))
				return
			}
			filters.OnlyActive = active
		}

		pagination := h.parsePagination(c)
		items, total, err := h.CatalogService.List(c.Request.Context(), filters, pagination)
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, pkg.NewPaginatedResponse(items, pagination.Page, pagination.Limit, total))
	}
}

func (h *Handler) GetServiceItem(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}

		item, err := h.CatalogService.Get(c.Request.Context(), kind, id)
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func (h *Handler) DeleteServiceItem(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}

		if err := h.CatalogService.Delete(c.Request.Context(), kind, id); err != nil {
			h.respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
