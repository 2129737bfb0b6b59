package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/pointers"
)

type therapyFixture struct {
	r         testRepos
	svc       TherapyService
	clock     *fakeClock
	prof      *types.Professional
	patient   *types.Patient
	category  *types.Category
	pictogram *types.Pictogram
	ctx       context.Context
}

func newTherapyFixture(t *testing.T) therapyFixture {
	t.Helper()
	r := newTestRepos(t)
	bg := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	prof := testutil.SeedProfessional(t, bg, r.db, "ana", "x")
	patient := testutil.SeedPatient(t, bg, r.db, prof.ID, "Lucas")
	category := testutil.SeedCategory(t, bg, r.db, "Comida", 1)
	pictogram := testutil.SeedPictogram(t, bg, r.db, category.ID, "Água", 1)
	svc := NewTherapyService(testutil.Logger(t), TherapyDeps{
		Sessions:      r.sessions,
		Events:        r.events,
		Patients:      r.patients,
		Professionals: r.professionals,
		Categories:    r.categories,
		Pictograms:    r.pictograms,
	}, clock.Now)
	return therapyFixture{
		r: r, svc: svc, clock: clock, prof: prof, patient: patient,
		category: category, pictogram: pictogram, ctx: asProfessional(prof.ID),
	}
}

func TestStartSessionReusesOpenSession(t *testing.T) {
	f := newTherapyFixture(t)

	s1, created, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.prof.ID, s1.ProfessionalID)
	assert.Equal(t, f.clock.Now(), s1.StartedAt)

	s2, created, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s1.ID, s2.ID)

	_, _, err = f.svc.StartSession(f.ctx, 0)
	assert.Equal(t, "paciente_id obrigatório", err.Error())

	_, _, err = f.svc.StartSession(f.ctx, 999)
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestRecordSelectionValidation(t *testing.T) {
	f := newTherapyFixture(t)
	s, _, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)

	latency := 2.5
	ev, err := f.svc.RecordSelection(f.ctx, s.ID, f.pictogram.ID, &latency)
	require.NoError(t, err)
	assert.Equal(t, s.ID, ev.SessionID)
	require.NotNil(t, ev.ResponseSeconds)
	assert.Equal(t, 2.5, *ev.ResponseSeconds)

	_, err = f.svc.RecordSelection(f.ctx, s.ID, 0, nil)
	assert.Equal(t, "pictograma_id obrigatório", err.Error())

	_, err = f.svc.RecordSelection(f.ctx, 999, f.pictogram.ID, nil)
	assert.Equal(t, "session_not_found", apierr.CodeOf(err))

	_, err = f.svc.RecordSelection(f.ctx, s.ID, 999, nil)
	assert.Equal(t, "pictogram_not_found", apierr.CodeOf(err))

	negative := -1.0
	_, err = f.svc.RecordSelection(f.ctx, s.ID, f.pictogram.ID, &negative)
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
}

func TestFinalizeSession(t *testing.T) {
	f := newTherapyFixture(t)
	s, _, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)

	f.clock.Advance(17*time.Minute + 59*time.Second)

	_, err = f.svc.FinalizeSession(f.ctx, s.ID, "   ", "")
	assert.Equal(t, "Avaliação é obrigatória para finalizar a sessão", err.Error())

	done, err := f.svc.FinalizeSession(f.ctx, s.ID, " Respondeu bem ", "")
	require.NoError(t, err)
	assert.True(t, done.Finalized)
	require.NotNil(t, done.DurationMinutes)
	assert.Equal(t, 17, *done.DurationMinutes)
	assert.Equal(t, "Respondeu bem", *done.Evaluation)
	assert.Nil(t, done.Observations)

	_, err = f.svc.FinalizeSession(f.ctx, s.ID, "De novo", "")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	_, err = f.svc.FinalizeSession(f.ctx, 999, "x", "")
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))

	// A finalized session no longer blocks a new one.
	next, created, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, next.ID)
}

func TestListSessionsSummaries(t *testing.T) {
	f := newTherapyFixture(t)
	other := testutil.SeedPatient(t, context.Background(), f.r.db, f.prof.ID, "Maria")

	first, _, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)
	_, err = f.svc.RecordSelection(f.ctx, first.ID, f.pictogram.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.RecordSelection(f.ctx, first.ID, f.pictogram.ID, nil)
	require.NoError(t, err)
	f.clock.Advance(90 * time.Second)
	_, err = f.svc.FinalizeSession(f.ctx, first.ID, "Ok", "Cansado")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	second, _, err := f.svc.StartSession(f.ctx, other.ID)
	require.NoError(t, err)

	all, err := f.svc.ListSessions(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, "Maria", *all[0].PatientName)
	assert.Nil(t, all[0].DurationSeconds)
	assert.EqualValues(t, 0, all[0].TotalInteractions)

	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, f.prof.Name, all[1].ProfessionalName)
	require.NotNil(t, all[1].DurationSeconds)
	assert.EqualValues(t, 90, *all[1].DurationSeconds)
	assert.Equal(t, 1, *all[1].DurationMinutes)
	assert.EqualValues(t, 2, all[1].TotalInteractions)

	filtered, err := f.svc.ListSessions(f.ctx, &other.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	none := uint(12345)
	empty, err := f.svc.ListSessions(f.ctx, &none)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListSessionsMissingProfessional(t *testing.T) {
	f := newTherapyFixture(t)
	testutil.SeedSession(t, context.Background(), f.r.db, f.patient.ID, 777, f.clock.Now())

	all, err := f.svc.ListSessions(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "N/A", all[0].ProfessionalName)
}

func TestSessionHistory(t *testing.T) {
	f := newTherapyFixture(t)
	bread := testutil.SeedPictogram(t, context.Background(), f.r.db, f.category.ID, "Pão", 2)
	s, _, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	_, err = f.svc.RecordSelection(f.ctx, s.ID, bread.ID, pointers.Float64(1.5))
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.svc.RecordSelection(f.ctx, s.ID, f.pictogram.ID, nil)
	require.NoError(t, err)

	h, err := f.svc.SessionHistory(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, h.SessionID)
	assert.Equal(t, "Lucas", *h.PatientName)
	assert.False(t, h.Finalized)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, "Pão", *h.Entries[0].PictogramName)
	assert.Equal(t, "Comida", *h.Entries[0].CategoryName)
	assert.Equal(t, 1.5, *h.Entries[0].ResponseSeconds)
	assert.Equal(t, "Água", *h.Entries[1].PictogramName)
	assert.True(t, h.Entries[0].Timestamp.Before(h.Entries[1].Timestamp))

	// Hard-deleting the category leaves nameless entries behind.
	catalog := NewCatalogService(f.r.db, testutil.Logger(t), f.r.categories, f.r.pictograms)
	require.NoError(t, catalog.DeleteCategory(context.Background(), f.category.ID))
	h, err = f.svc.SessionHistory(f.ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, h.Entries, 2)
	assert.Nil(t, h.Entries[0].PictogramName)
	assert.Nil(t, h.Entries[0].CategoryName)

	_, err = f.svc.SessionHistory(f.ctx, 999)
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestHistorySurvivesPatientSoftDelete(t *testing.T) {
	f := newTherapyFixture(t)
	s, _, err := f.svc.StartSession(f.ctx, f.patient.ID)
	require.NoError(t, err)
	_, err = f.svc.RecordSelection(f.ctx, s.ID, f.pictogram.ID, nil)
	require.NoError(t, err)

	patients := NewPatientService(testutil.Logger(t), f.r.patients, nil)
	require.NoError(t, patients.Delete(f.ctx, f.patient.ID))

	hist, err := f.svc.SessionHistory(f.ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, hist.PatientName)
	assert.Equal(t, "Lucas", *hist.PatientName)
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, f.pictogram.ID, hist.Entries[0].PictogramID)

	list, err := f.svc.ListSessions(f.ctx, &f.patient.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s.ID, list[0].ID)
	require.NotNil(t, list[0].PatientName)
	assert.Equal(t, "Lucas", *list[0].PatientName)
	assert.EqualValues(t, 1, list[0].TotalInteractions)
}
