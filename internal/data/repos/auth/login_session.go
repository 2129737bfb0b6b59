package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type LoginSessionRepo interface {
	Create(dbc dbctx.Context, s *types.LoginSession) (*types.LoginSession, error)
	// GetValid returns nil when the session is unknown or expired at now.
	GetValid(dbc dbctx.Context, id uuid.UUID, now time.Time) (*types.LoginSession, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	DeleteByProfessionalIDs(dbc dbctx.Context, professionalIDs []uint) error
	DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error)
}

type loginSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoginSessionRepo(db *gorm.DB, baseLog *logger.Logger) LoginSessionRepo {
	repoLog := baseLog.With("repo", "LoginSessionRepo")
	return &loginSessionRepo{db: db, log: repoLog}
}

func (r *loginSessionRepo) Create(dbc dbctx.Context, s *types.LoginSession) (*types.LoginSession, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := dbc.Conn(r.db).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *loginSessionRepo) GetValid(dbc dbctx.Context, id uuid.UUID, now time.Time) (*types.LoginSession, error) {
	var row types.LoginSession
	res := dbc.Conn(r.db).
		Where("id = ? AND expires_at > ?", id, now).
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

func (r *loginSessionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Conn(r.db).
		Where("id = ?", id).
		Delete(&types.LoginSession{}).Error
}

func (r *loginSessionRepo) DeleteByProfessionalIDs(dbc dbctx.Context, professionalIDs []uint) error {
	if len(professionalIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("usuario_id IN ?", professionalIDs).
		Delete(&types.LoginSession{}).Error
}

func (r *loginSessionRepo) DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error) {
	res := dbc.Conn(r.db).
		Where("expires_at <= ?", now).
		Delete(&types.LoginSession{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.log.Debug("Purged expired login sessions", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
