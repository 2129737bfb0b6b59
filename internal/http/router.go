package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/caa-backend/internal/http/handlers"
	httpMW "github.com/yungbote/caa-backend/internal/http/middleware"
	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	PatientHandler *httpH.PatientHandler
	CatalogHandler *httpH.CatalogHandler
	SessionHandler *httpH.SessionHandler
	UploadHandler  *httpH.UploadHandler
	HealthHandler  *httpH.HealthHandler

	CORSOrigins    []string
	StaticDir      string
	RequestTimeout time.Duration

	// Metrics is served on /metrics when ExposeMetrics is set.
	Metrics       *observability.Metrics
	ExposeMetrics bool
	// TracingService enables otelgin spans under this service name.
	TracingService string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if name := strings.TrimSpace(cfg.TracingService); name != "" {
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}
	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		r.Static("/static", dir)
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.Status)
		}

		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/cadastro", cfg.AuthHandler.Register)
			api.POST("/logout", cfg.AuthHandler.Logout)
			if cfg.AuthMiddleware != nil {
				api.GET("/usuario/atual", cfg.AuthMiddleware.OptionalAuth(), cfg.AuthHandler.CurrentUser)
			}
		}

		// Catalog reads are public
		if cfg.CatalogHandler != nil {
			api.GET("/categorias", cfg.CatalogHandler.ListCategories)
			api.GET("/pictogramas", cfg.CatalogHandler.ListPictograms)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Patients
		if cfg.PatientHandler != nil {
			protected.GET("/pacientes", cfg.PatientHandler.List)
			protected.POST("/pacientes", cfg.PatientHandler.Create)
			protected.GET("/pacientes/:id", cfg.PatientHandler.Get)
			protected.PUT("/pacientes/:id", cfg.PatientHandler.Update)
			protected.DELETE("/pacientes/:id", cfg.PatientHandler.Delete)
		}

		// Catalog
		if cfg.CatalogHandler != nil {
			protected.POST("/categorias", cfg.CatalogHandler.CreateCategory)
			protected.PUT("/categorias/:id", cfg.CatalogHandler.UpdateCategory)
			protected.DELETE("/categorias/:id", cfg.CatalogHandler.DeleteCategory)
			protected.POST("/pictogramas", cfg.CatalogHandler.CreatePictogram)
			protected.PUT("/pictogramas/:id", cfg.CatalogHandler.UpdatePictogram)
			protected.DELETE("/pictogramas/:id", cfg.CatalogHandler.DeletePictogram)
		}

		// Therapy sessions
		if cfg.SessionHandler != nil {
			protected.GET("/sessoes", cfg.SessionHandler.List)
			protected.POST("/sessoes", cfg.SessionHandler.Start)
			protected.POST("/sessoes/:id/selecao", cfg.SessionHandler.RecordSelection)
			protected.POST("/sessoes/:id/finalizar", cfg.SessionHandler.Finalize)
			protected.GET("/sessoes/:id/historico", cfg.SessionHandler.History)
		}

		// Upload
		if cfg.UploadHandler != nil {
			protected.POST("/upload", cfg.UploadHandler.UploadImage)
		}
	}

	return r
}
