package patient

import (
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type PatientRepo interface {
	Create(dbc dbctx.Context, p *types.Patient) (*types.Patient, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Patient, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Patient, error)
	ListActiveByProfessional(dbc dbctx.Context, professionalID uint) ([]*types.Patient, error)
	Update(dbc dbctx.Context, id uint, p types.PatientPatch) error
	SoftDelete(dbc dbctx.Context, id uint) error
}

type patientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
	repoLog := baseLog.With("repo", "PatientRepo")
	return &patientRepo{db: db, log: repoLog}
}

func (r *patientRepo) Create(dbc dbctx.Context, p *types.Patient) (*types.Patient, error) {
	if err := dbc.Conn(r.db).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID ignores the active flag so historical sessions can still resolve the patient.
func (r *patientRepo) GetByID(dbc dbctx.Context, id uint) (*types.Patient, error) {
	var row types.Patient
	res := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *patientRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Patient, error) {
	var results []*types.Patient
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *patientRepo) ListActiveByProfessional(dbc dbctx.Context, professionalID uint) ([]*types.Patient, error) {
	var results []*types.Patient
	if err := dbc.Conn(r.db).
		Where("usuario_id = ? AND ativo = ?", professionalID, true).
		Order("nome ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *patientRepo) Update(dbc dbctx.Context, id uint, p types.PatientPatch) error {
	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.Patient{}).
		Where("id = ?", id).
		Updates(cols).Error
}

func (r *patientRepo) SoftDelete(dbc dbctx.Context, id uint) error {
	return dbc.Conn(r.db).
		Model(&types.Patient{}).
		Where("id = ?", id).
		Update("ativo", false).Error
}
