package catalog

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/patch"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCategoryRepo(db, testutil.Logger(t))

	maxOrder, err := repo.MaxOrder(dbc)
	if err != nil || maxOrder != 0 {
		t.Fatalf("MaxOrder (empty): got=%d err=%v", maxOrder, err)
	}

	testutil.SeedCategory(t, ctx, tx, "Emoções", 2)
	comida := testutil.SeedCategory(t, ctx, tx, "Comida", 1)

	maxOrder, err = repo.MaxOrder(dbc)
	if err != nil || maxOrder != 2 {
		t.Fatalf("MaxOrder: got=%d err=%v", maxOrder, err)
	}

	list, err := repo.List(dbc)
	if err != nil || len(list) != 2 || list[0].Name != "Comida" {
		t.Fatalf("List: %+v err=%v", list, err)
	}

	if _, err := repo.Create(dbc, &types.Category{Name: "Comida", Order: 3}); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create duplicate: expected ErrDuplicatedKey, got %v", err)
	}

	if err := repo.Update(dbc, comida.ID, types.CategoryPatch{Color: patch.Of("#000000")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(dbc, comida.ID)
	if err != nil || got == nil || got.Color != "#000000" || got.Name != "Comida" {
		t.Fatalf("GetByID after update: %+v err=%v", got, err)
	}
}

func TestCategoryDeleteCascadeRemovesPictograms(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	categories := NewCategoryRepo(db, testutil.Logger(t))
	pictograms := NewPictogramRepo(db, testutil.Logger(t))

	comida := testutil.SeedCategory(t, ctx, tx, "Comida", 1)
	acoes := testutil.SeedCategory(t, ctx, tx, "Ações", 2)
	agua := testutil.SeedPictogram(t, ctx, tx, comida.ID, "Água", 1)
	testutil.SeedPictogram(t, ctx, tx, comida.ID, "Pão", 2)
	brincar := testutil.SeedPictogram(t, ctx, tx, acoes.ID, "Brincar", 1)

	removed, err := categories.DeleteCascade(dbc, comida.ID)
	if err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if removed != 2 {
		t.Fatalf("DeleteCascade: removed=%d want 2", removed)
	}

	if c, err := categories.GetByID(dbc, comida.ID); err != nil || c != nil {
		t.Fatalf("category still present: %+v err=%v", c, err)
	}
	if p, err := pictograms.GetByID(dbc, agua.ID); err != nil || p != nil {
		t.Fatalf("pictogram still present: %+v err=%v", p, err)
	}
	if p, err := pictograms.GetByID(dbc, brincar.ID); err != nil || p == nil {
		t.Fatalf("unrelated pictogram removed: err=%v", err)
	}
}

func TestPictogramRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPictogramRepo(db, testutil.Logger(t))
	comida := testutil.SeedCategory(t, ctx, tx, "Comida", 1)
	acoes := testutil.SeedCategory(t, ctx, tx, "Ações", 2)

	if got, err := repo.MaxOrderInCategory(dbc, comida.ID); err != nil || got != 0 {
		t.Fatalf("MaxOrderInCategory (empty): got=%d err=%v", got, err)
	}

	suco := testutil.SeedPictogram(t, ctx, tx, comida.ID, "Suco", 2)
	testutil.SeedPictogram(t, ctx, tx, comida.ID, "Água", 1)
	testutil.SeedPictogram(t, ctx, tx, acoes.ID, "Brincar", 7)

	if got, err := repo.MaxOrderInCategory(dbc, comida.ID); err != nil || got != 2 {
		t.Fatalf("MaxOrderInCategory: got=%d err=%v", got, err)
	}

	all, err := repo.ListActive(dbc, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListActive: len=%d err=%v", len(all), err)
	}
	filtered, err := repo.ListActive(dbc, &comida.ID)
	if err != nil || len(filtered) != 2 || filtered[0].Name != "Água" {
		t.Fatalf("ListActive (category): %+v err=%v", filtered, err)
	}

	if err := repo.Update(dbc, suco.ID, types.PictogramPatch{
		AudioText: patch.Of("Quero suco"),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(dbc, suco.ID)
	if err != nil || got.AudioText != "Quero suco" || got.Name != "Suco" {
		t.Fatalf("Update result: %+v err=%v", got, err)
	}

	if err := repo.SoftDelete(dbc, suco.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	filtered, err = repo.ListActive(dbc, &comida.ID)
	if err != nil || len(filtered) != 1 {
		t.Fatalf("ListActive after delete: %+v err=%v", filtered, err)
	}
	if got, err := repo.MaxOrderInCategory(dbc, comida.ID); err != nil || got != 2 {
		t.Fatalf("MaxOrderInCategory counts soft-deleted rows: got=%d err=%v", got, err)
	}
}
