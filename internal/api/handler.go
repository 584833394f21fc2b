package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xchange/internal/ingest"
	"xchange/internal/redisclient"
	"xchange/internal/util"
)

// Handler contains HTTP handlers
type Handler struct {
	orchestrator *ingest.Orchestrator
	runs         *redisclient.Client
}

// NewHandler creates a new HTTP handler. runs may be nil when no status
// store is configured.
func NewHandler(orchestrator *ingest.Orchestrator, runs *redisclient.Client) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		runs:         runs,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/ingest", h.triggerIngest)
		v1.GET("/runs/:id", h.getRun)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// IngestRequest identifies the container object to process.
type IngestRequest struct {
	Bucket string `json:"bucket" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// triggerIngest runs one ingestion synchronously. It is the manual replay
// path; routine runs arrive through the Kafka worker.
func (h *Handler) triggerIngest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	runID, err := h.orchestrator.Process(c.Request.Context(), req.Bucket, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Ingestion run failed",
			"run_id":  runID,
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"stage":  ingest.StageArchived,
	})
}

// getRun returns the recorded status of one ingestion run
func (h *Handler) getRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "No run status store configured",
		})
		return
	}

	status, err := h.runs.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, redisclient.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Run not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read run status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
