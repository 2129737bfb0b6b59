package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/patch"
)

type stubAvatars struct {
	url string
	err error
}

func (s stubAvatars) GeneratePatientAvatar(string) (bytes.Buffer, error) { return bytes.Buffer{}, nil }

func (s stubAvatars) CreateAndUploadPatientAvatar(context.Context, string) (string, error) {
	return s.url, s.err
}

func TestPatientCreateListScopedToCaller(t *testing.T) {
	r := newTestRepos(t)
	bg := context.Background()
	ana := testutil.SeedProfessional(t, bg, r.db, "ana", "x")
	bia := testutil.SeedProfessional(t, bg, r.db, "bia", "x")
	svc := NewPatientService(testutil.Logger(t), r.patients, stubAvatars{url: "/static/images/avatar.png"})

	p, err := svc.Create(asProfessional(ana.ID), CreatePatientInput{Name: "  Lucas  ", BirthDate: "2018-03-09", SupportLevel: "Nível 2"})
	require.NoError(t, err)
	assert.Equal(t, "Lucas", p.Name)
	assert.Equal(t, ana.ID, p.ProfessionalID)
	assert.Equal(t, "/static/images/avatar.png", p.PhotoURL)
	require.NotNil(t, FormatBirthDate(p.BirthDate))
	assert.Equal(t, "2018-03-09", *FormatBirthDate(p.BirthDate))

	_, err = svc.Create(asProfessional(ana.ID), CreatePatientInput{Name: "Alice", PhotoURL: "/x.png"})
	require.NoError(t, err)
	_, err = svc.Create(asProfessional(bia.ID), CreatePatientInput{Name: "Bruno"})
	require.NoError(t, err)

	mine, err := svc.ListMine(asProfessional(ana.ID))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Alice", mine[0].Name)
	assert.Equal(t, "/x.png", mine[0].PhotoURL)
	assert.Equal(t, "Lucas", mine[1].Name)

	_, err = svc.ListMine(bg)
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
}

func TestPatientCreateValidation(t *testing.T) {
	r := newTestRepos(t)
	svc := NewPatientService(testutil.Logger(t), r.patients, nil)
	ctx := asProfessional(1)

	_, err := svc.Create(ctx, CreatePatientInput{Name: "   "})
	assert.Equal(t, "Nome é obrigatório", err.Error())
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))

	_, err = svc.Create(ctx, CreatePatientInput{Name: "Lucas", BirthDate: "09/03/2018"})
	assert.Equal(t, "invalid_birth_date", apierr.CodeOf(err))
}

func TestPatientAvatarFailureIsIgnored(t *testing.T) {
	r := newTestRepos(t)
	svc := NewPatientService(testutil.Logger(t), r.patients, stubAvatars{err: errors.New("host down")})

	p, err := svc.Create(asProfessional(1), CreatePatientInput{Name: "Lucas"})
	require.NoError(t, err)
	assert.Empty(t, p.PhotoURL)
}

func TestPatientUpdateSemantics(t *testing.T) {
	r := newTestRepos(t)
	svc := NewPatientService(testutil.Logger(t), r.patients, nil)
	ctx := asProfessional(1)
	p, err := svc.Create(ctx, CreatePatientInput{Name: "Lucas", BirthDate: "2018-03-09", Diagnosis: "TEA"})
	require.NoError(t, err)

	// Blank name is ignored, other present fields apply.
	require.NoError(t, svc.Update(ctx, p.ID, UpdatePatientInput{
		Name:         patch.Of(""),
		SupportLevel: patch.Of("Nível 3"),
		Diagnosis:    patch.Of("TEA nível 3"),
	}))
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lucas", got.Name)
	assert.Equal(t, "Nível 3", got.SupportLevel)
	assert.Equal(t, "TEA nível 3", got.Diagnosis)
	require.NotNil(t, got.BirthDate)

	require.NoError(t, svc.Update(ctx, p.ID, UpdatePatientInput{Name: patch.Of("Lucas Silva"), BirthDate: patch.Null[string]()}))
	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lucas Silva", got.Name)
	assert.Nil(t, got.BirthDate)

	require.NoError(t, svc.Update(ctx, p.ID, UpdatePatientInput{BirthDate: patch.Of("2019-01-02")}))
	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2019-01-02", *FormatBirthDate(got.BirthDate))

	err = svc.Update(ctx, p.ID, UpdatePatientInput{BirthDate: patch.Of("ontem")})
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))

	err = svc.Update(ctx, 999, UpdatePatientInput{Name: patch.Of("X")})
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestPatientDeleteIsSoft(t *testing.T) {
	r := newTestRepos(t)
	svc := NewPatientService(testutil.Logger(t), r.patients, nil)
	ctx := asProfessional(1)
	p, err := svc.Create(ctx, CreatePatientInput{Name: "Lucas"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	mine, err := svc.ListMine(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	err = svc.Delete(ctx, 999)
	assert.Equal(t, "Paciente não encontrado", err.Error())
}
