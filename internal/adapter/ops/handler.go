// Package ops serves the internal operations surface of the host binary:
// request counters and automation server health.
package ops

import (
	"context"
	"time"

	"gameharness/internal/adapter/harness"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const healthTimeout = 2 * time.Second

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type healthProvider interface {
	Health(ctx context.Context) (harness.Health, error)
}

type Handler struct {
	KPI    kpiSnapshotProvider
	Health healthProvider
	// AllowOrigin is sent as Access-Control-Allow-Origin; empty means "*".
	AllowOrigin string
}

// NewServer builds a hertz server on addr with the ops routes registered.
// The caller runs and shuts it down.
func NewServer(addr string, h Handler) *server.Hertz {
	s := server.New(
		server.WithHostPorts(addr),
		server.WithExitWaitTime(time.Second),
		server.WithDisablePrintRoute(true),
	)
	h.RegisterRoutes(s)
	return s
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))
	ops := s.Group("/ops")
	ops.GET("/kpi", h.kpi)
	ops.GET("/healthz", h.healthz)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// healthz is 200 only while the automation server is listening.
func (h Handler) healthz(c context.Context, ctx *app.RequestContext) {
	if h.Health == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "health provider not configured")
		return
	}
	c, cancel := context.WithTimeout(c, healthTimeout)
	defer cancel()

	health, err := h.Health.Health(c)
	if err != nil {
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	status := consts.StatusOK
	if health.State != harness.StateListening.String() {
		status = consts.StatusServiceUnavailable
	}
	ctx.JSON(status, health)
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
