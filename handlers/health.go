package handlers

import (
	"context"
	"net/http"

	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the state of the store and Redis connections.
type HealthHandler struct {
	Check func(ctx context.Context) utils.HealthStatus
}

func NewHealthHandler(check func(ctx context.Context) utils.HealthStatus) *HealthHandler {
	return &HealthHandler{Check: check}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := h.Check(c.Request.Context())
	if !status.Healthy() {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
