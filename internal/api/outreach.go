package api

import (
	"net/http"

	"admin-dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

type templateRequest struct {
	Name string `json:"name" binding:"required"`
	Body string `json:"body" binding:"required"`
}

func (h *Handler) listTemplates(c *gin.Context) {
	templates, err := h.outreach.ListTemplates(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to list templates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": templates})
}

func (h *Handler) createTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	tmpl, err := h.outreach.CreateTemplate(c.Request.Context(), req.Name, req.Body)
	if err != nil {
		h.respondError(c, "Failed to create template", err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (h *Handler) updateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	tmpl, err := h.outreach.UpdateTemplate(c.Request.Context(), c.Param("id"), req.Name, req.Body)
	if err != nil {
		h.respondError(c, "Failed to update template", err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.outreach.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "Failed to delete template", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type composeTemplateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	service.Recipient
}

func (h *Handler) composeTemplate(c *gin.Context) {
	var req composeTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	msg, err := h.outreach.ComposeFromTemplate(c.Request.Context(), req.TemplateID, req.Recipient)
	if err != nil {
		h.respondError(c, "Failed to compose message", err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

type composeProductRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	service.Recipient
}

func (h *Handler) composeProduct(c *gin.Context) {
	var req composeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	msg, err := h.outreach.ComposeProductPromotion(c.Request.Context(), req.ProductID, req.Recipient)
	if err != nil {
		h.respondError(c, "Failed to compose message", err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) dispatch(c *gin.Context) {
	var req service.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	msg, err := h.outreach.Dispatch(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to prepare dispatch", err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
