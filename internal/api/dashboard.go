package api

import (
	"net/http"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/view"

	"github.com/gin-gonic/gin"
)

// pageResponse is a view slice plus the freshness of the data behind it
type pageResponse[T any] struct {
	view.Page[T]
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetched_at"`
}

func newPageResponse[T any](page view.Page[T], status service.Status) pageResponse[T] {
	return pageResponse[T]{Page: page, Stale: status.Stale, FetchedAt: status.FetchedAt}
}

func (h *Handler) refresh(c *gin.Context) {
	if err := h.dashboard.Refresh(c.Request.Context()); err != nil {
		status := h.dashboard.Status()
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to refresh dashboard",
			"details": err.Error(),
			"status":  status,
			"stale":   status.Stale,
		})
		return
	}
	c.JSON(http.StatusOK, h.dashboard.Status())
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Status())
}

func (h *Handler) summary(c *gin.Context) {
	summary, status := h.dashboard.Summary()
	c.JSON(http.StatusOK, gin.H{
		"summary":    summary,
		"stale":      status.Stale,
		"fetched_at": status.FetchedAt,
	})
}

func (h *Handler) heatmap(c *gin.Context) {
	heatmap, status := h.dashboard.Heatmap()
	c.JSON(http.StatusOK, gin.H{
		"heatmap":    heatmap,
		"stale":      status.Stale,
		"fetched_at": status.FetchedAt,
	})
}

func (h *Handler) listCustomers(c *gin.Context) {
	sort, err := view.ParseSortKey(c.Query("sort"))
	if err != nil {
		badRequest(c, "Invalid sort key", err)
		return
	}

	page, status := h.dashboard.Customers(view.CustomerQuery{
		Search: c.Query("search"),
		Sort:   sort,
		Page:   pageParam(c),
	})
	c.JSON(http.StatusOK, newPageResponse(page, status))
}

func (h *Handler) getCustomer(c *gin.Context) {
	customer, status, err := h.dashboard.Customer(c.Param("id"))
	if err != nil {
		h.respondError(c, "Customer not found", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
		"stale":    status.Stale,
	})
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.dashboard.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "Failed to delete order", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listStock(c *gin.Context) {
	stockStatus, err := view.ParseStockStatus(c.Query("status"))
	if err != nil {
		badRequest(c, "Invalid stock status", err)
		return
	}

	page, status := h.dashboard.Stock(view.StockQuery{
		Search: c.Query("search"),
		Status: stockStatus,
		Page:   pageParam(c),
	})
	c.JSON(http.StatusOK, newPageResponse(page, status))
}

type updateStockRequest struct {
	Stock *int    `json:"stock"`
	Unit  *string `json:"unit"`
}

func (h *Handler) updateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	item, err := h.stock.Update(c.Request.Context(), c.Param("id"), models.ProductPatch{Stock: req.Stock, Unit: req.Unit})
	if err != nil {
		h.respondError(c, "Failed to update stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":  item,
		"state": h.stock.EditState(item.ProductID).State,
	})
}

func (h *Handler) editState(c *gin.Context) {
	c.JSON(http.StatusOK, h.stock.EditState(c.Param("id")))
}

func (h *Handler) beginEdit(c *gin.Context) {
	state, err := h.stock.BeginEdit(c.Param("id"))
	if err != nil {
		h.respondError(c, "Cannot begin edit", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) cancelEdit(c *gin.Context) {
	state, err := h.stock.CancelEdit(c.Param("id"))
	if err != nil {
		h.respondError(c, "Cannot cancel edit", err)
		return
	}
	c.JSON(http.StatusOK, state)
}
