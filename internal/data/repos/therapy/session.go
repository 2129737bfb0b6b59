package therapy

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.Session) (*types.Session, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Session, error)
	GetOpenByPatient(dbc dbctx.Context, patientID uint) (*types.Session, error)
	List(dbc dbctx.Context, patientID *uint) ([]*types.Session, error)
	// Finalize closes an open session. It reports false when the session was
	// already finalized (or does not exist) and nothing was written.
	Finalize(dbc dbctx.Context, id uint, in FinalizeInput) (bool, error)
	CountSelections(dbc dbctx.Context, sessionIDs []uint) (map[uint]int64, error)
}

type FinalizeInput struct {
	EndedAt         time.Time
	DurationMinutes int
	// Observations is left untouched when nil.
	Observations *string
	Evaluation   string
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.Session) (*types.Session, error) {
	if err := dbc.Conn(r.db).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uint) (*types.Session, error) {
	var row types.Session
	res := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) GetOpenByPatient(dbc dbctx.Context, patientID uint) (*types.Session, error) {
	var row types.Session
	res := dbc.Conn(r.db).
		Where("paciente_id = ? AND finalizada = ?", patientID, false).
		Order("data_inicio DESC").
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

func (r *sessionRepo) List(dbc dbctx.Context, patientID *uint) ([]*types.Session, error) {
	var results []*types.Session
	q := dbc.Conn(r.db)
	if patientID != nil {
		q = q.Where("paciente_id = ?", *patientID)
	}
	if err := q.Order("data_inicio DESC").Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) Finalize(dbc dbctx.Context, id uint, in FinalizeInput) (bool, error) {
	cols := map[string]any{
		"data_fim":        in.EndedAt,
		"duracao_minutos": in.DurationMinutes,
		"avaliacao":       in.Evaluation,
		"finalizada":      true,
	}
	if in.Observations != nil {
		cols["observacoes"] = *in.Observations
	}
	res := dbc.Conn(r.db).
		Model(&types.Session{}).
		Where("id = ? AND finalizada = ?", id, false).
		Updates(cols)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepo) CountSelections(dbc dbctx.Context, sessionIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		SessionID uint
		Total     int64
	}
	if err := dbc.Conn(r.db).
		Model(&types.SelectionEvent{}).
		Select("sessao_id AS session_id, COUNT(*) AS total").
		Where("sessao_id IN ?", sessionIDs).
		Group("sessao_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.SessionID] = row.Total
	}
	return out, nil
}
