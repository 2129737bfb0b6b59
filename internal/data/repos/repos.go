package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos/auth"
	"github.com/yungbote/caa-backend/internal/data/repos/catalog"
	"github.com/yungbote/caa-backend/internal/data/repos/patient"
	"github.com/yungbote/caa-backend/internal/data/repos/professional"
	"github.com/yungbote/caa-backend/internal/data/repos/therapy"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type ProfessionalRepo = professional.ProfessionalRepo
type LoginSessionRepo = auth.LoginSessionRepo

type PatientRepo = patient.PatientRepo

type CategoryRepo = catalog.CategoryRepo
type PictogramRepo = catalog.PictogramRepo

type SessionRepo = therapy.SessionRepo
type SessionFinalizeInput = therapy.FinalizeInput
type SelectionEventRepo = therapy.SelectionEventRepo

func NewProfessionalRepo(db *gorm.DB, baseLog *logger.Logger) ProfessionalRepo {
	return professional.NewProfessionalRepo(db, baseLog)
}
func NewLoginSessionRepo(db *gorm.DB, baseLog *logger.Logger) LoginSessionRepo {
	return auth.NewLoginSessionRepo(db, baseLog)
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
	return patient.NewPatientRepo(db, baseLog)
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, baseLog)
}
func NewPictogramRepo(db *gorm.DB, baseLog *logger.Logger) PictogramRepo {
	return catalog.NewPictogramRepo(db, baseLog)
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return therapy.NewSessionRepo(db, baseLog)
}
func NewSelectionEventRepo(db *gorm.DB, baseLog *logger.Logger) SelectionEventRepo {
	return therapy.NewSelectionEventRepo(db, baseLog)
}
