package patient

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/patch"
)

func TestPatientRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPatientRepo(db, testutil.Logger(t))
	owner := testutil.SeedProfessional(t, ctx, tx, "owner", "hash")
	other := testutil.SeedProfessional(t, ctx, tx, "other", "hash")

	birth := datatypes.Date(time.Date(2018, 3, 9, 0, 0, 0, 0, time.UTC))
	bruno, err := repo.Create(dbc, &types.Patient{
		Name:           "Bruno",
		BirthDate:      &birth,
		ProfessionalID: owner.ID,
		Active:         true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedPatient(t, ctx, tx, owner.ID, "Ana")
	testutil.SeedPatient(t, ctx, tx, other.ID, "Carla")

	list, err := repo.ListActiveByProfessional(dbc, owner.ID)
	if err != nil {
		t.Fatalf("ListActiveByProfessional: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Ana" || list[1].Name != "Bruno" {
		t.Fatalf("ListActiveByProfessional: unexpected order or scope: %+v", list)
	}

	if err := repo.Update(dbc, bruno.ID, types.PatientPatch{
		Diagnosis: patch.Of("TEA"),
		BirthDate: patch.Null[datatypes.Date](),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(dbc, bruno.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got.Diagnosis != "TEA" || got.BirthDate != nil || got.Name != "Bruno" {
		t.Fatalf("Update: unexpected row %+v", got)
	}

	if err := repo.Update(dbc, bruno.ID, types.PatientPatch{}); err != nil {
		t.Fatalf("Update (empty): %v", err)
	}

	if err := repo.SoftDelete(dbc, bruno.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	list, err = repo.ListActiveByProfessional(dbc, owner.ID)
	if err != nil || len(list) != 1 || list[0].Name != "Ana" {
		t.Fatalf("ListActiveByProfessional after delete: %+v err=%v", list, err)
	}

	still, err := repo.GetByID(dbc, bruno.ID)
	if err != nil || still == nil || still.Active {
		t.Fatalf("GetByID after soft delete: got=%+v err=%v", still, err)
	}
}
