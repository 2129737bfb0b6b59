package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type PictogramRepo interface {
	Create(dbc dbctx.Context, p *types.Pictogram) (*types.Pictogram, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Pictogram, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Pictogram, error)
	ListActive(dbc dbctx.Context, categoryID *uint) ([]*types.Pictogram, error)
	MaxOrderInCategory(dbc dbctx.Context, categoryID uint) (int, error)
	Update(dbc dbctx.Context, id uint, p types.PictogramPatch) error
	SoftDelete(dbc dbctx.Context, id uint) error
}

type pictogramRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPictogramRepo(db *gorm.DB, baseLog *logger.Logger) PictogramRepo {
	repoLog := baseLog.With("repo", "PictogramRepo")
	return &pictogramRepo{db: db, log: repoLog}
}

func (r *pictogramRepo) Create(dbc dbctx.Context, p *types.Pictogram) (*types.Pictogram, error) {
	if err := dbc.Conn(r.db).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID includes soft-deleted pictograms.
func (r *pictogramRepo) GetByID(dbc dbctx.Context, id uint) (*types.Pictogram, error) {
	var row types.Pictogram
	res := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *pictogramRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Pictogram, error) {
	var results []*types.Pictogram
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pictogramRepo) ListActive(dbc dbctx.Context, categoryID *uint) ([]*types.Pictogram, error) {
	var results []*types.Pictogram
	q := dbc.Conn(r.db).Where("ativo = ?", true)
	if categoryID != nil {
		q = q.Where("categoria_id = ?", *categoryID)
	}
	if err := q.Order("ordem ASC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MaxOrderInCategory counts soft-deleted pictograms too, so new cards never reuse their slot.
func (r *pictogramRepo) MaxOrderInCategory(dbc dbctx.Context, categoryID uint) (int, error) {
	var maxOrder int
	if err := dbc.Conn(r.db).
		Model(&types.Pictogram{}).
		Where("categoria_id = ?", categoryID).
		Select("COALESCE(MAX(ordem), 0)").
		Row().
		Scan(&maxOrder); err != nil {
		return 0, err
	}
	return maxOrder, nil
}

func (r *pictogramRepo) Update(dbc dbctx.Context, id uint, p types.PictogramPatch) error {
	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.Pictogram{}).
		Where("id = ?", id).
		Updates(cols).Error
}

func (r *pictogramRepo) SoftDelete(dbc dbctx.Context, id uint) error {
	return dbc.Conn(r.db).
		Model(&types.Pictogram{}).
		Where("id = ?", id).
		Update("ativo", false).Error
}
