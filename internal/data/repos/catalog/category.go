package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, c *types.Category) (*types.Category, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Category, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Category, error)
	List(dbc dbctx.Context) ([]*types.Category, error)
	MaxOrder(dbc dbctx.Context) (int, error)
	Update(dbc dbctx.Context, id uint, p types.CategoryPatch) error
	DeleteCascade(dbc dbctx.Context, id uint) (int64, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (r *categoryRepo) Create(dbc dbctx.Context, c *types.Category) (*types.Category, error) {
	if err := dbc.Conn(r.db).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uint) (*types.Category, error) {
	var row types.Category
	res := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *categoryRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Category, error) {
	var results []*types.Category
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) List(dbc dbctx.Context) ([]*types.Category, error) {
	var results []*types.Category
	if err := dbc.Conn(r.db).Order("ordem ASC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MaxOrder returns 0 when there are no categories.
func (r *categoryRepo) MaxOrder(dbc dbctx.Context) (int, error) {
	var maxOrder int
	if err := dbc.Conn(r.db).
		Model(&types.Category{}).
		Select("COALESCE(MAX(ordem), 0)").
		Row().
		Scan(&maxOrder); err != nil {
		return 0, err
	}
	return maxOrder, nil
}

func (r *categoryRepo) Update(dbc dbctx.Context, id uint, p types.CategoryPatch) error {
	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.Category{}).
		Where("id = ?", id).
		Updates(cols).Error
}

// DeleteCascade hard-deletes the category's pictograms and then the category.
// Callers should pass a transaction so both deletes commit together.
// It returns the number of pictograms removed.
func (r *categoryRepo) DeleteCascade(dbc dbctx.Context, id uint) (int64, error) {
	conn := dbc.Conn(r.db)
	res := conn.Where("categoria_id = ?", id).Delete(&types.Pictogram{})
	if res.Error != nil {
		return 0, res.Error
	}
	if err := conn.Where("id = ?", id).Delete(&types.Category{}).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}
