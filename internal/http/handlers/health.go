package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	APIVersion = "2.0.0"
	SystemName = "CAA - Instituto Tia Dani"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler { return &HealthHandler{now: time.Now} }

// HealthCheck is the bare liveness check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"versao":    APIVersion,
		"sistema":   SystemName,
	})
}
