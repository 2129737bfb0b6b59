package professional

import (
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type ProfessionalRepo interface {
	Create(dbc dbctx.Context, p *types.Professional) (*types.Professional, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Professional, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Professional, error)
	GetActiveByLogin(dbc dbctx.Context, login string) (*types.Professional, error)
	LoginExists(dbc dbctx.Context, login string) (bool, error)
	UpdatePassword(dbc dbctx.Context, id uint, passwordHash string) error
}

type professionalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfessionalRepo(db *gorm.DB, baseLog *logger.Logger) ProfessionalRepo {
	repoLog := baseLog.With("repo", "ProfessionalRepo")
	return &professionalRepo{db: db, log: repoLog}
}

func (r *professionalRepo) Create(dbc dbctx.Context, p *types.Professional) (*types.Professional, error) {
	if err := dbc.Conn(r.db).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns nil without error when no row matches.
func (r *professionalRepo) GetByID(dbc dbctx.Context, id uint) (*types.Professional, error) {
	var row types.Professional
	res := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *professionalRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Professional, error) {
	var results []*types.Professional
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *professionalRepo) GetActiveByLogin(dbc dbctx.Context, login string) (*types.Professional, error) {
	var row types.Professional
	res := dbc.Conn(r.db).
		Where("login = ? AND ativo = ?", login, true).
		Limit(1).
		Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// LoginExists ignores the active flag: deactivated accounts still own their login.
func (r *professionalRepo) LoginExists(dbc dbctx.Context, login string) (bool, error) {
	var count int64
	if err := dbc.Conn(r.db).
		Model(&types.Professional{}).
		Where("login = ?", login).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *professionalRepo) UpdatePassword(dbc dbctx.Context, id uint, passwordHash string) error {
	return dbc.Conn(r.db).
		Model(&types.Professional{}).
		Where("id = ?", id).
		Update("senha", passwordHash).Error
}
