package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/platform/imagehost"
	"github.com/yungbote/caa-backend/internal/platform/logger"
	"github.com/yungbote/caa-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Patient services.PatientService
	Catalog services.CatalogService
	Therapy services.TherapyService
	Upload  services.UploadService
	Avatar  services.AvatarService

	// LoginSessions is the store AuthService uses; Purger is set only when
	// that store needs periodic cleanup.
	LoginSessions services.LoginSessionStore
	Purger        services.ExpiredSessionPurger
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, host imagehost.Host) (Services, error) {
	log.Info("Wiring services...")

	var (
		store  services.LoginSessionStore
		purger services.ExpiredSessionPurger
	)
	if clients.Redis != nil {
		store = clients.Redis
	} else {
		dbStore := services.NewDBLoginSessionStore(log, reposet.LoginSession)
		store = dbStore
		if p, ok := dbStore.(services.ExpiredSessionPurger); ok {
			purger = p
		}
	}

	var avatars services.AvatarService
	if cfg.PatientAvatars {
		a, err := services.NewAvatarService(log, host)
		if err != nil {
			return Services{}, fmt.Errorf("init avatar service: %w", err)
		}
		avatars = a
	}

	return Services{
		Auth:    services.NewAuthService(log, reposet.Professional, store, cfg.SecretKey, cfg.SessionLifetime),
		Patient: services.NewPatientService(log, reposet.Patient, avatars),
		Catalog: services.NewCatalogService(db, log, reposet.Category, reposet.Pictogram),
		Therapy: services.NewTherapyService(log, services.TherapyDeps{
			Sessions:      reposet.Session,
			Events:        reposet.SelectionEvent,
			Patients:      reposet.Patient,
			Professionals: reposet.Professional,
			Categories:    reposet.Category,
			Pictograms:    reposet.Pictogram,
		}, nil),
		Upload:        services.NewUploadService(log, host),
		Avatar:        avatars,
		LoginSessions: store,
		Purger:        purger,
	}, nil
}
