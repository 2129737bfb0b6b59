package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type Repos struct {
	Professional   repos.ProfessionalRepo
	LoginSession   repos.LoginSessionRepo
	Patient        repos.PatientRepo
	Category       repos.CategoryRepo
	Pictogram      repos.PictogramRepo
	Session        repos.SessionRepo
	SelectionEvent repos.SelectionEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Professional:   repos.NewProfessionalRepo(db, log),
		LoginSession:   repos.NewLoginSessionRepo(db, log),
		Patient:        repos.NewPatientRepo(db, log),
		Category:       repos.NewCategoryRepo(db, log),
		Pictogram:      repos.NewPictogramRepo(db, log),
		Session:        repos.NewSessionRepo(db, log),
		SelectionEvent: repos.NewSelectionEventRepo(db, log),
	}
}
