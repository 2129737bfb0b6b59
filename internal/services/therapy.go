package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/domain/therapy"
	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/ctxutil"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
	"github.com/yungbote/caa-backend/internal/platform/pointers"
)

const missingProfessionalName = "N/A"

var (
	errSessionNotFound    = apierr.NotFound("session_not_found", "Sessão não encontrada")
	errSessionFinalized   = apierr.Conflict("session_finalized", "Sessão já finalizada")
	errEvaluationRequired = apierr.BadRequest("evaluation_required", "Avaliação é obrigatória para finalizar a sessão")
)

// SessionSummary is one row of the session list.
type SessionSummary struct {
	ID               uint       `json:"id"`
	PatientID        uint       `json:"paciente_id"`
	PatientName      *string    `json:"paciente_nome"`
	ProfessionalID   uint       `json:"profissional_id"`
	ProfessionalName string     `json:"profissional_nome"`
	StartedAt        time.Time  `json:"data_inicio"`
	EndedAt          *time.Time `json:"data_fim"`
	DurationMinutes  *int       `json:"duracao_minutos"`
	// DurationSeconds is only set for finalized sessions.
	DurationSeconds   *int64  `json:"duracao"`
	Evaluation        *string `json:"avaliacao"`
	Finalized         bool    `json:"finalizada"`
	TotalInteractions int64   `json:"total_interacoes"`
}

type HistoryEntry struct {
	ID              uint      `json:"id"`
	PictogramID     uint      `json:"pictograma_id"`
	PictogramName   *string   `json:"pictograma_nome"`
	PictogramImage  *string   `json:"pictograma_imagem"`
	CategoryName    *string   `json:"categoria_nome"`
	Timestamp       time.Time `json:"timestamp"`
	ResponseSeconds *float64  `json:"tempo_resposta_segundos"`
}

type SessionHistory struct {
	SessionID        uint           `json:"sessao_id"`
	PatientID        uint           `json:"paciente_id"`
	PatientName      *string        `json:"paciente_nome"`
	ProfessionalName string         `json:"profissional_nome"`
	StartedAt        time.Time      `json:"data_inicio"`
	EndedAt          *time.Time     `json:"data_fim"`
	DurationMinutes  *int           `json:"duracao_minutos"`
	Observations     *string        `json:"observacoes"`
	Evaluation       *string        `json:"avaliacao"`
	Finalized        bool           `json:"finalizada"`
	Entries          []HistoryEntry `json:"historico"`
}

type TherapyService interface {
	// StartSession reports created=false when the patient already had an open session.
	StartSession(ctx context.Context, patientID uint) (*types.Session, bool, error)
	RecordSelection(ctx context.Context, sessionID, pictogramID uint, responseSeconds *float64) (*types.SelectionEvent, error)
	FinalizeSession(ctx context.Context, sessionID uint, evaluation, observations string) (*types.Session, error)
	ListSessions(ctx context.Context, patientID *uint) ([]SessionSummary, error)
	SessionHistory(ctx context.Context, sessionID uint) (*SessionHistory, error)
}

type therapyService struct {
	log              *logger.Logger
	sessionRepo      repos.SessionRepo
	eventRepo        repos.SelectionEventRepo
	patientRepo      repos.PatientRepo
	professionalRepo repos.ProfessionalRepo
	categoryRepo     repos.CategoryRepo
	pictogramRepo    repos.PictogramRepo
	now              func() time.Time
}

type TherapyDeps struct {
	Sessions      repos.SessionRepo
	Events        repos.SelectionEventRepo
	Patients      repos.PatientRepo
	Professionals repos.ProfessionalRepo
	Categories    repos.CategoryRepo
	Pictograms    repos.PictogramRepo
}

// NewTherapyService uses time.Now when now is nil.
func NewTherapyService(log *logger.Logger, deps TherapyDeps, now func() time.Time) TherapyService {
	if now == nil {
		now = time.Now
	}
	return &therapyService{
		log:              log.With("service", "TherapyService"),
		sessionRepo:      deps.Sessions,
		eventRepo:        deps.Events,
		patientRepo:      deps.Patients,
		professionalRepo: deps.Professionals,
		categoryRepo:     deps.Categories,
		pictogramRepo:    deps.Pictograms,
		now:              now,
	}
}

func (s *therapyService) StartSession(ctx context.Context, patientID uint) (*types.Session, bool, error) {
	professionalID := ctxutil.ProfessionalID(ctx)
	if professionalID == 0 {
		return nil, false, errNotAuthenticated
	}
	if patientID == 0 {
		return nil, false, apierr.BadRequest("patient_id_required", "paciente_id obrigatório")
	}
	dbc := dbctx.Context{Ctx: ctx}

	patient, err := s.patientRepo.GetByID(dbc, patientID)
	if err != nil {
		return nil, false, fmt.Errorf("load patient: %w", err)
	}
	if patient == nil {
		return nil, false, errPatientNotFound
	}

	open, err := s.sessionRepo.GetOpenByPatient(dbc, patientID)
	if err != nil {
		return nil, false, fmt.Errorf("load open session: %w", err)
	}
	if open != nil {
		observability.Current().IncSessionStarted(false)
		return open, false, nil
	}

	session, err := s.sessionRepo.Create(dbc, &types.Session{
		PatientID:      patientID,
		ProfessionalID: professionalID,
		StartedAt:      s.now().UTC(),
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent start for the same patient.
		open, err := s.sessionRepo.GetOpenByPatient(dbc, patientID)
		if err != nil {
			return nil, false, fmt.Errorf("reload open session: %w", err)
		}
		if open == nil {
			return nil, false, fmt.Errorf("open session vanished after duplicate insert")
		}
		observability.Current().IncSessionStarted(false)
		return open, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create session: %w", err)
	}
	observability.Current().IncSessionStarted(true)
	s.log.Info("Session started", "sessao_id", session.ID, "paciente_id", patientID, "professional_id", professionalID)
	return session, true, nil
}

func (s *therapyService) RecordSelection(ctx context.Context, sessionID, pictogramID uint, responseSeconds *float64) (*types.SelectionEvent, error) {
	if pictogramID == 0 {
		return nil, apierr.BadRequest("pictogram_id_required", "pictograma_id obrigatório")
	}
	if responseSeconds != nil && *responseSeconds < 0 {
		return nil, apierr.BadRequest("invalid_response_time", "tempo_resposta_segundos não pode ser negativo")
	}
	dbc := dbctx.Context{Ctx: ctx}

	session, err := s.sessionRepo.GetByID(dbc, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, errSessionNotFound
	}
	pictogram, err := s.pictogramRepo.GetByID(dbc, pictogramID)
	if err != nil {
		return nil, fmt.Errorf("load pictogram: %w", err)
	}
	if pictogram == nil {
		return nil, errPictogramNotFound
	}

	event, err := s.eventRepo.Create(dbc, &types.SelectionEvent{
		SessionID:       sessionID,
		PictogramID:     pictogramID,
		Timestamp:       s.now().UTC(),
		ResponseSeconds: responseSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("record selection: %w", err)
	}
	observability.Current().ObserveSelection(responseSeconds)
	s.log.Debug("Selection recorded", "sessao_id", sessionID, "pictograma_id", pictogramID)
	return event, nil
}

func (s *therapyService) FinalizeSession(ctx context.Context, sessionID uint, evaluation, observations string) (*types.Session, error) {
	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessionRepo.GetByID(dbc, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, errSessionNotFound
	}
	evaluation = strings.TrimSpace(evaluation)
	if evaluation == "" {
		return nil, errEvaluationRequired
	}
	if session.Finalized {
		return nil, errSessionFinalized
	}

	endedAt := s.now().UTC()
	in := repos.SessionFinalizeInput{
		EndedAt:         endedAt,
		DurationMinutes: therapy.DurationMinutesBetween(session.StartedAt, endedAt),
		Evaluation:      evaluation,
	}
	if observations != "" {
		in.Observations = &observations
	}
	ok, err := s.sessionRepo.Finalize(dbc, sessionID, in)
	if err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}
	if !ok {
		return nil, errSessionFinalized
	}

	session.EndedAt = &in.EndedAt
	session.DurationMinutes = &in.DurationMinutes
	session.Evaluation = &in.Evaluation
	if in.Observations != nil {
		session.Observations = in.Observations
	}
	session.Finalized = true
	observability.Current().IncSessionFinalized()
	s.log.Info("Session finalized", "sessao_id", sessionID, "duracao_minutos", in.DurationMinutes)
	return session, nil
}

func (s *therapyService) ListSessions(ctx context.Context, patientID *uint) ([]SessionSummary, error) {
	dbc := dbctx.Context{Ctx: ctx}
	sessions, err := s.sessionRepo.List(dbc, patientID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return []SessionSummary{}, nil
	}

	ids := make([]uint, 0, len(sessions))
	patientIDs := make([]uint, 0, len(sessions))
	professionalIDs := make([]uint, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
		patientIDs = append(patientIDs, sess.PatientID)
		professionalIDs = append(professionalIDs, sess.ProfessionalID)
	}
	counts, err := s.sessionRepo.CountSelections(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count selections: %w", err)
	}
	patientNames, err := s.patientNames(dbc, patientIDs)
	if err != nil {
		return nil, err
	}
	professionalNames, err := s.professionalNames(dbc, professionalIDs)
	if err != nil {
		return nil, err
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		row := SessionSummary{
			ID:                sess.ID,
			PatientID:         sess.PatientID,
			PatientName:       patientNames[sess.PatientID],
			ProfessionalID:    sess.ProfessionalID,
			ProfessionalName:  professionalNameOr(professionalNames, sess.ProfessionalID),
			StartedAt:         sess.StartedAt,
			EndedAt:           sess.EndedAt,
			DurationMinutes:   sess.DurationMinutes,
			Evaluation:        sess.Evaluation,
			Finalized:         sess.Finalized,
			TotalInteractions: counts[sess.ID],
		}
		if sess.Finalized && sess.EndedAt != nil {
			secs := int64(sess.EndedAt.Sub(sess.StartedAt) / time.Second)
			row.DurationSeconds = &secs
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *therapyService) SessionHistory(ctx context.Context, sessionID uint) (*SessionHistory, error) {
	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessionRepo.GetByID(dbc, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, errSessionNotFound
	}
	events, err := s.eventRepo.ListBySession(dbc, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}

	patientNames, err := s.patientNames(dbc, []uint{session.PatientID})
	if err != nil {
		return nil, err
	}
	professionalNames, err := s.professionalNames(dbc, []uint{session.ProfessionalID})
	if err != nil {
		return nil, err
	}

	pictogramIDs := make([]uint, 0, len(events))
	for _, e := range events {
		pictogramIDs = append(pictogramIDs, e.PictogramID)
	}
	pictograms, err := s.pictogramRepo.GetByIDs(dbc, pictogramIDs)
	if err != nil {
		return nil, fmt.Errorf("load pictograms: %w", err)
	}
	pictogramByID := make(map[uint]*types.Pictogram, len(pictograms))
	categoryIDs := make([]uint, 0, len(pictograms))
	for _, p := range pictograms {
		pictogramByID[p.ID] = p
		categoryIDs = append(categoryIDs, p.CategoryID)
	}
	categories, err := s.categoryRepo.GetByIDs(dbc, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	categoryByID := make(map[uint]*types.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	entries := make([]HistoryEntry, 0, len(events))
	for _, e := range events {
		entry := HistoryEntry{
			ID:              e.ID,
			PictogramID:     e.PictogramID,
			Timestamp:       e.Timestamp,
			ResponseSeconds: e.ResponseSeconds,
		}
		if p := pictogramByID[e.PictogramID]; p != nil {
			entry.PictogramName = &p.Name
			entry.PictogramImage = &p.ImageURL
			if c := categoryByID[p.CategoryID]; c != nil {
				entry.CategoryName = &c.Name
			}
		}
		entries = append(entries, entry)
	}

	return &SessionHistory{
		SessionID:        session.ID,
		PatientID:        session.PatientID,
		PatientName:      patientNames[session.PatientID],
		ProfessionalName: professionalNameOr(professionalNames, session.ProfessionalID),
		StartedAt:        session.StartedAt,
		EndedAt:          session.EndedAt,
		DurationMinutes:  session.DurationMinutes,
		Observations:     session.Observations,
		Evaluation:       session.Evaluation,
		Finalized:        session.Finalized,
		Entries:          entries,
	}, nil
}

func (s *therapyService) patientNames(dbc dbctx.Context, ids []uint) (map[uint]*string, error) {
	rows, err := s.patientRepo.GetByIDs(dbc, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	out := make(map[uint]*string, len(rows))
	for _, p := range rows {
		out[p.ID] = pointers.String(p.Name)
	}
	return out, nil
}

func (s *therapyService) professionalNames(dbc dbctx.Context, ids []uint) (map[uint]string, error) {
	rows, err := s.professionalRepo.GetByIDs(dbc, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("load professionals: %w", err)
	}
	out := make(map[uint]string, len(rows))
	for _, p := range rows {
		out[p.ID] = p.Name
	}
	return out, nil
}

func professionalNameOr(names map[uint]string, id uint) string {
	if n, ok := names[id]; ok {
		return n
	}
	return missingProfessionalName
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
