package app

import (
	httpH "github.com/yungbote/caa-backend/internal/http/handlers"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	Patient *httpH.PatientHandler
	Catalog *httpH.CatalogHandler
	Session *httpH.SessionHandler
	Upload  *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Auth:    httpH.NewAuthHandler(services.Auth, cfg.CookieSecure),
		Patient: httpH.NewPatientHandler(services.Patient),
		Catalog: httpH.NewCatalogHandler(services.Catalog),
		Session: httpH.NewSessionHandler(services.Therapy),
		Upload:  httpH.NewUploadHandler(services.Upload, cfg.MaxUploadBytes),
	}
}
