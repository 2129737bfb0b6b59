package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/patch"
)

func newTestCatalog(t *testing.T) (testRepos, CatalogService) {
	t.Helper()
	r := newTestRepos(t)
	return r, NewCatalogService(r.db, testutil.Logger(t), r.categories, r.pictograms)
}

func TestCreateCategoryDefaults(t *testing.T) {
	_, svc := newTestCatalog(t)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Comida"})
	require.NoError(t, err)
	assert.Equal(t, DefaultCategoryColor, first.Color)
	assert.Equal(t, DefaultCategoryIcon, first.Icon)
	assert.Equal(t, 1, first.Order)

	order := 10
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Lugares", Color: "#FF6B6B", Icon: "🏠", Order: &order})
	require.NoError(t, err)

	next, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Ações"})
	require.NoError(t, err)
	assert.Equal(t, 11, next.Order)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Comida", "Lugares", "Ações"}, []string{list[0].Name, list[1].Name, list[2].Name})

	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: " "})
	assert.Equal(t, "Nome é obrigatório", err.Error())

	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Comida"})
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
	assert.Equal(t, "category_exists", apierr.CodeOf(err))
}

func TestUpdateCategoryIgnoresEmptyValues(t *testing.T) {
	_, svc := newTestCatalog(t)
	ctx := context.Background()
	c, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Comida", Color: "#111111"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateCategory(ctx, c.ID, UpdateCategoryInput{
		Name:  patch.Of(""),
		Color: patch.Of("#222222"),
		Order: patch.Of(0),
	}))
	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Comida", list[0].Name)
	assert.Equal(t, "#222222", list[0].Color)
	assert.Equal(t, 1, list[0].Order)

	err = svc.UpdateCategory(ctx, 404, UpdateCategoryInput{Name: patch.Of("X")})
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestDeleteCategoryCascades(t *testing.T) {
	r, svc := newTestCatalog(t)
	ctx := context.Background()
	food, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Comida"})
	require.NoError(t, err)
	places, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Lugares"})
	require.NoError(t, err)
	_, err = svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Água", CategoryID: food.ID})
	require.NoError(t, err)
	home, err := svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Casa", CategoryID: places.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, food.ID))

	all, err := svc.ListPictograms(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, home.ID, all[0].ID)

	err = svc.DeleteCategory(ctx, food.ID)
	assert.Equal(t, "Categoria não encontrada", err.Error())
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))

	got, err := r.categories.GetByID(dbctx.Context{Ctx: ctx}, food.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreatePictogramDefaultsAndValidation(t *testing.T) {
	_, svc := newTestCatalog(t)
	ctx := context.Background()
	food, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Comida", Color: "#FF6B6B"})
	require.NoError(t, err)

	water, err := svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Água", CategoryID: food.ID})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPictogramImage, water.ImageURL)
	assert.Equal(t, "Água", water.AudioText)
	assert.Equal(t, 1, water.Order)
	assert.True(t, water.Active)

	bread, err := svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Pão", CategoryID: food.ID, AudioText: "Quero pão", ImageURL: "/static/images/pao.png"})
	require.NoError(t, err)
	assert.Equal(t, 2, bread.Order)
	assert.Equal(t, "Quero pão", bread.AudioText)

	_, err = svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Suco"})
	assert.Equal(t, "Nome e categoria são obrigatórios", err.Error())

	_, err = svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Suco", CategoryID: 999})
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
	assert.Equal(t, "Categoria não encontrada", err.Error())

	views, err := svc.ListPictograms(ctx, &food.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].CategoryName)
	assert.Equal(t, "Comida", *views[0].CategoryName)
	assert.Equal(t, "#FF6B6B", *views[0].CategoryColor)
}

func TestUpdateAndDeletePictogram(t *testing.T) {
	_, svc := newTestCatalog(t)
	ctx := context.Background()
	food, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Comida"})
	require.NoError(t, err)
	places, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Lugares"})
	require.NoError(t, err)
	p, err := svc.CreatePictogram(ctx, CreatePictogramInput{Name: "Água", CategoryID: food.ID})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePictogram(ctx, p.ID, UpdatePictogramInput{
		Name:       patch.Of(""),
		AudioText:  patch.Of("Quero água"),
		CategoryID: patch.Of(places.ID),
	}))
	views, err := svc.ListPictograms(ctx, &places.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Água", views[0].Name)
	assert.Equal(t, "Quero água", views[0].AudioText)

	err = svc.UpdatePictogram(ctx, p.ID, UpdatePictogramInput{CategoryID: patch.Of(uint(999))})
	assert.Equal(t, "category_not_found", apierr.CodeOf(err))

	err = svc.UpdatePictogram(ctx, 999, UpdatePictogramInput{})
	assert.Equal(t, "pictogram_not_found", apierr.CodeOf(err))

	require.NoError(t, svc.DeletePictogram(ctx, p.ID))
	views, err = svc.ListPictograms(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}
