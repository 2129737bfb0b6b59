package app

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caa-backend/internal/http"
	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const serviceName = "caa-backend"

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	tracing := ""
	if cfg.OtelEnabled {
		tracing = serviceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		PatientHandler: handlers.Patient,
		CatalogHandler: handlers.Catalog,
		SessionHandler: handlers.Session,
		UploadHandler:  handlers.Upload,
		CORSOrigins:    cfg.CORSOrigins,
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
		ExposeMetrics:  strings.TrimSpace(cfg.MetricsAddr) == "",
		TracingService: tracing,
	})
}
