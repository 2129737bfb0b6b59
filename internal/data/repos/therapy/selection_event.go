package therapy

import (
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type SelectionEventRepo interface {
	Create(dbc dbctx.Context, e *types.SelectionEvent) (*types.SelectionEvent, error)
	ListBySession(dbc dbctx.Context, sessionID uint) ([]*types.SelectionEvent, error)
}

type selectionEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSelectionEventRepo(db *gorm.DB, baseLog *logger.Logger) SelectionEventRepo {
	repoLog := baseLog.With("repo", "SelectionEventRepo")
	return &selectionEventRepo{db: db, log: repoLog}
}

func (r *selectionEventRepo) Create(dbc dbctx.Context, e *types.SelectionEvent) (*types.SelectionEvent, error) {
	if err := dbc.Conn(r.db).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// ListBySession returns events oldest first.
func (r *selectionEventRepo) ListBySession(dbc dbctx.Context, sessionID uint) ([]*types.SelectionEvent, error) {
	var results []*types.SelectionEvent
	if err := dbc.Conn(r.db).
		Where("sessao_id = ?", sessionID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
