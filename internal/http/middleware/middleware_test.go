package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/ctxutil"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("request id header: %q", got)
	}
	if rec.Header().Get(headerTraceID) == "" {
		t.Fatalf("expected generated trace id")
	}
	if seen == nil || seen.RequestID != "req-123" {
		t.Fatalf("trace data not attached: %+v", seen)
	}
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTimeout(time.Second))
	hasDeadline := false
	r.GET("/x", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if !hasDeadline {
		t.Fatalf("expected request deadline")
	}
}

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/pacientes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pacientes/12", nil))

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(sb.String(), `route="/api/pacientes/:id"`) {
		t.Fatalf("route label missing:\n%s", sb.String())
	}
}

func TestMetricsNilIsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status got=%d", rec.Code)
	}
}

func TestAttachTraceContextReplacesUnusableRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, bad := range []string{strings.Repeat("a", maxCorrelationIDLen+1), "has space", "tab\tid"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(headerRequestID, bad)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		got := rec.Header().Get(headerRequestID)
		if got == "" || got == bad {
			t.Fatalf("request id %q was kept as %q", bad, got)
		}
	}
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRequestLoggerNamesRouteEntities(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := observedLogger()
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/api/sessoes/:id/historico", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/api/pacientes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/api/sessoes", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sessoes/7/historico", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/pacientes/3", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sessoes?paciente_id=3", nil))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("log lines: got=%d", len(entries))
	}

	history := entries[0].ContextMap()
	if history["sessao_id"] != "7" || history["path"] != "/api/sessoes/:id/historico" {
		t.Fatalf("history fields: %v", history)
	}
	if _, ok := history["paciente_id"]; ok {
		t.Fatalf("unexpected paciente_id: %v", history)
	}

	if entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("404 level: got=%s", entries[1].Level)
	}
	if got := entries[1].ContextMap()["paciente_id"]; got != "3" {
		t.Fatalf("paciente_id: got=%v", got)
	}

	if got := entries[2].ContextMap()["paciente_id"]; got != "3" {
		t.Fatalf("paciente_id filter: got=%v", got)
	}
}
