package http

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency, such as the page cache backend.
type HealthCheck func(ctx context.Context) error

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) IHealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz returns OK when every registered check passes
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := gin.H{}
	for _, name := range names {
		if err := h.checks[name](ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	if status == http.StatusOK {
		ctx.JSON(status, gin.H{"status": "ok", "checks": results})
		return
	}
	ctx.JSON(status, gin.H{"status": "degraded", "checks": results})
}
