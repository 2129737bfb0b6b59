package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
	"github.com/yungbote/caa-backend/internal/platform/patch"
)

const (
	DefaultCategoryColor = "#4ECDC4"
	DefaultCategoryIcon  = "📁"
)

var (
	errCategoryNotFound  = apierr.NotFound("category_not_found", "Categoria não encontrada")
	errCategoryExists    = apierr.BadRequest("category_exists", "Já existe uma categoria com este nome")
	errPictogramNotFound = apierr.NotFound("pictogram_not_found", "Pictograma não encontrado")
)

type CreateCategoryInput struct {
	Name  string
	Color string
	Icon  string
	// Order defaults to one past the current maximum.
	Order *int
}

// UpdateCategoryInput only applies non-blank strings and non-zero orders.
type UpdateCategoryInput struct {
	Name  patch.Field[string]
	Color patch.Field[string]
	Icon  patch.Field[string]
	Order patch.Field[int]
}

type CreatePictogramInput struct {
	Name       string
	CategoryID uint
	ImageURL   string
	AudioText  string
	Order      *int
}

type UpdatePictogramInput struct {
	Name       patch.Field[string]
	ImageURL   patch.Field[string]
	AudioText  patch.Field[string]
	CategoryID patch.Field[uint]
	Order      patch.Field[int]
}

// PictogramView is a pictogram joined with its category's display fields.
type PictogramView struct {
	*types.Pictogram
	CategoryName  *string `json:"categoria_nome"`
	CategoryColor *string `json:"categoria_cor"`
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*types.Category, error)
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*types.Category, error)
	UpdateCategory(ctx context.Context, id uint, in UpdateCategoryInput) error
	DeleteCategory(ctx context.Context, id uint) error

	ListPictograms(ctx context.Context, categoryID *uint) ([]PictogramView, error)
	CreatePictogram(ctx context.Context, in CreatePictogramInput) (*types.Pictogram, error)
	UpdatePictogram(ctx context.Context, id uint, in UpdatePictogramInput) error
	DeletePictogram(ctx context.Context, id uint) error
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	categoryRepo  repos.CategoryRepo
	pictogramRepo repos.PictogramRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo, pictogramRepo repos.PictogramRepo) CatalogService {
	return &catalogService{
		db:            db,
		log:           log.With("service", "CatalogService"),
		categoryRepo:  categoryRepo,
		pictogramRepo: pictogramRepo,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*types.Category, error) {
	return s.categoryRepo.List(dbctx.Context{Ctx: ctx})
}

func (s *catalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errNameRequired
	}
	c := &types.Category{
		Name:  name,
		Color: firstNonBlank(in.Color, DefaultCategoryColor),
		Icon:  firstNonBlank(in.Icon, DefaultCategoryIcon),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if in.Order != nil {
			c.Order = *in.Order
		} else {
			maxOrder, err := s.categoryRepo.MaxOrder(dbc)
			if err != nil {
				return fmt.Errorf("max category order: %w", err)
			}
			c.Order = maxOrder + 1
		}
		_, err := s.categoryRepo.Create(dbc, c)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errCategoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.log.Info("Category created", "category_id", c.ID, "ordem", c.Order)
	return c, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, in UpdateCategoryInput) error {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.categoryRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if existing == nil {
		return errCategoryNotFound
	}
	p := types.CategoryPatch{
		Name:  nonBlank(in.Name),
		Color: nonBlank(in.Color),
		Icon:  nonBlank(in.Icon),
		Order: nonZero(in.Order),
	}
	err = s.categoryRepo.Update(dbc, id, p)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errCategoryExists
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.categoryRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if existing == nil {
			return errCategoryNotFound
		}
		removed, err = s.categoryRepo.DeleteCascade(dbc, id)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("Category deleted", "category_id", id, "pictograms_removed", removed)
	return nil
}

func (s *catalogService) ListPictograms(ctx context.Context, categoryID *uint) ([]PictogramView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	pictograms, err := s.pictogramRepo.ListActive(dbc, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list pictograms: %w", err)
	}
	ids := make([]uint, 0, len(pictograms))
	seen := map[uint]bool{}
	for _, p := range pictograms {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	categories, err := s.categoryRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	byID := make(map[uint]*types.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]PictogramView, 0, len(pictograms))
	for _, p := range pictograms {
		v := PictogramView{Pictogram: p}
		if c := byID[p.CategoryID]; c != nil {
			v.CategoryName = &c.Name
			v.CategoryColor = &c.Color
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *catalogService) CreatePictogram(ctx context.Context, in CreatePictogramInput) (*types.Pictogram, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == 0 {
		return nil, apierr.BadRequest("missing_fields", "Nome e categoria são obrigatórios")
	}
	p := &types.Pictogram{
		Name:       name,
		CategoryID: in.CategoryID,
		ImageURL:   firstNonBlank(in.ImageURL, types.DefaultPictogramImage),
		AudioText:  firstNonBlank(in.AudioText, name),
		Active:     true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		category, err := s.categoryRepo.GetByID(dbc, in.CategoryID)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if category == nil {
			return errCategoryNotFound
		}
		if in.Order != nil {
			p.Order = *in.Order
		} else {
			maxOrder, err := s.pictogramRepo.MaxOrderInCategory(dbc, in.CategoryID)
			if err != nil {
				return fmt.Errorf("max pictogram order: %w", err)
			}
			p.Order = maxOrder + 1
		}
		_, err = s.pictogramRepo.Create(dbc, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Pictogram created", "pictogram_id", p.ID, "category_id", p.CategoryID)
	return p, nil
}

func (s *catalogService) UpdatePictogram(ctx context.Context, id uint, in UpdatePictogramInput) error {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.pictogramRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load pictogram: %w", err)
	}
	if existing == nil {
		return errPictogramNotFound
	}
	p := types.PictogramPatch{
		Name:       nonBlank(in.Name),
		ImageURL:   nonBlank(in.ImageURL),
		AudioText:  nonBlank(in.AudioText),
		CategoryID: nonZero(in.CategoryID),
		Order:      nonZero(in.Order),
	}
	if p.CategoryID.Present() && p.CategoryID.Value != existing.CategoryID {
		category, err := s.categoryRepo.GetByID(dbc, p.CategoryID.Value)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if category == nil {
			return errCategoryNotFound
		}
	}
	if err := s.pictogramRepo.Update(dbc, id, p); err != nil {
		return fmt.Errorf("update pictogram: %w", err)
	}
	return nil
}

func (s *catalogService) DeletePictogram(ctx context.Context, id uint) error {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.pictogramRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load pictogram: %w", err)
	}
	if existing == nil {
		return errPictogramNotFound
	}
	if err := s.pictogramRepo.SoftDelete(dbc, id); err != nil {
		return fmt.Errorf("deactivate pictogram: %w", err)
	}
	s.log.Info("Pictogram deactivated", "pictogram_id", id)
	return nil
}

func firstNonBlank(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

// nonBlank drops nulls and blank strings.
func nonBlank(f patch.Field[string]) patch.Field[string] {
	if !f.Present() {
		return patch.Field[string]{}
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return patch.Field[string]{}
	}
	return patch.Of(v)
}

func nonZero[T int | uint](f patch.Field[T]) patch.Field[T] {
	if !f.Present() || f.Value == 0 {
		return patch.Field[T]{}
	}
	return f
}
