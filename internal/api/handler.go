package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"admin-dashboard/internal/service"
	"admin-dashboard/internal/stockedit"
	"admin-dashboard/internal/store"
	"admin-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Check is one readiness dependency
type Check func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	dashboard *service.DashboardService
	stock     *service.StockService
	outreach  *service.OutreachService
	jwtSecret string
	checks    map[string]Check
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. With an empty jwtSecret the
// API is served unauthenticated.
func NewHandler(
	dashboard *service.DashboardService,
	stock *service.StockService,
	outreach *service.OutreachService,
	jwtSecret string,
	checks map[string]Check,
) *Handler {
	return &Handler{
		dashboard: dashboard,
		stock:     stock,
		outreach:  outreach,
		jwtSecret: jwtSecret,
		checks:    checks,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if h.jwtSecret != "" {
		v1.Use(AdminAuth(h.jwtSecret))
	}
	{
		v1.POST("/refresh", h.refresh)
		v1.GET("/status", h.status)
		v1.GET("/summary", h.summary)
		v1.GET("/heatmap", h.heatmap)

		v1.GET("/customers", h.listCustomers)
		v1.GET("/customers/:id", h.getCustomer)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.GET("/stock", h.listStock)
		v1.PATCH("/stock/:id", h.updateStock)
		v1.GET("/stock/:id/edit", h.editState)
		v1.POST("/stock/:id/edit", h.beginEdit)
		v1.DELETE("/stock/:id/edit", h.cancelEdit)

		v1.GET("/templates", h.listTemplates)
		v1.POST("/templates", h.createTemplate)
		v1.PUT("/templates/:id", h.updateTemplate)
		v1.DELETE("/templates/:id", h.deleteTemplate)

		v1.POST("/outreach/template", h.composeTemplate)
		v1.POST("/outreach/product", h.composeProduct)
		v1.POST("/outreach/dispatch", h.dispatch)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once every dependency answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"snapshot": h.dashboard.Status(),
		"time":     time.Now().Unix(),
	})
}

// respondError maps domain errors onto status codes
func (h *Handler) respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, stockedit.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrFetchFailed), errors.Is(err, service.ErrUpdateFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// pageParam reads ?page=, falling back to 1; out of range values are
// clamped by the view layer
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
