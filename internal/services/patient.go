package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/caa-backend/internal/data/repos"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/ctxutil"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
	"github.com/yungbote/caa-backend/internal/platform/patch"
	"github.com/yungbote/caa-backend/internal/platform/pointers"
)

const birthDateLayout = "2006-01-02"

var errPatientNotFound = apierr.NotFound("patient_not_found", "Paciente não encontrado")

type CreatePatientInput struct {
	Name         string
	BirthDate    string
	Diagnosis    string
	SupportLevel string
	Preferences  string
	PhotoURL     string
}

// UpdatePatientInput: Name is only applied when non-blank; BirthDate null or
// "" clears the date.
type UpdatePatientInput struct {
	Name         patch.Field[string]
	BirthDate    patch.Field[string]
	Diagnosis    patch.Field[string]
	SupportLevel patch.Field[string]
	Preferences  patch.Field[string]
	PhotoURL     patch.Field[string]
}

type PatientService interface {
	ListMine(ctx context.Context) ([]*types.Patient, error)
	Get(ctx context.Context, id uint) (*types.Patient, error)
	Create(ctx context.Context, in CreatePatientInput) (*types.Patient, error)
	Update(ctx context.Context, id uint, in UpdatePatientInput) error
	Delete(ctx context.Context, id uint) error
}

type patientService struct {
	log         *logger.Logger
	patientRepo repos.PatientRepo
	avatars     AvatarService
}

// NewPatientService accepts a nil avatars, in which case patients without a
// photo keep an empty foto_perfil.
func NewPatientService(log *logger.Logger, patientRepo repos.PatientRepo, avatars AvatarService) PatientService {
	return &patientService{
		log:         log.With("service", "PatientService"),
		patientRepo: patientRepo,
		avatars:     avatars,
	}
}

func (s *patientService) ListMine(ctx context.Context) ([]*types.Patient, error) {
	professionalID := ctxutil.ProfessionalID(ctx)
	if professionalID == 0 {
		return nil, errNotAuthenticated
	}
	return s.patientRepo.ListActiveByProfessional(dbctx.Context{Ctx: ctx}, professionalID)
}

func (s *patientService) Get(ctx context.Context, id uint) (*types.Patient, error) {
	p, err := s.patientRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if p == nil {
		return nil, errPatientNotFound
	}
	return p, nil
}

func (s *patientService) Create(ctx context.Context, in CreatePatientInput) (*types.Patient, error) {
	professionalID := ctxutil.ProfessionalID(ctx)
	if professionalID == 0 {
		return nil, errNotAuthenticated
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errNameRequired
	}
	birthDate, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}

	p := &types.Patient{
		Name:           name,
		BirthDate:      birthDate,
		Diagnosis:      in.Diagnosis,
		SupportLevel:   in.SupportLevel,
		Preferences:    in.Preferences,
		PhotoURL:       strings.TrimSpace(in.PhotoURL),
		ProfessionalID: professionalID,
		Active:         true,
	}
	if p.PhotoURL == "" && s.avatars != nil {
		url, err := s.avatars.CreateAndUploadPatientAvatar(ctx, name)
		if err != nil {
			s.log.Warn("Patient avatar skipped", "error", err)
		} else {
			p.PhotoURL = url
		}
	}

	created, err := s.patientRepo.Create(dbctx.Context{Ctx: ctx}, p)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.log.Info("Patient created", "patient_id", created.ID, "professional_id", professionalID)
	return created, nil
}

func (s *patientService) Update(ctx context.Context, id uint, in UpdatePatientInput) error {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.patientRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	if existing == nil {
		return errPatientNotFound
	}

	p := types.PatientPatch{
		Diagnosis:    in.Diagnosis,
		SupportLevel: in.SupportLevel,
		Preferences:  in.Preferences,
		PhotoURL:     in.PhotoURL,
	}
	if in.Name.Present() {
		if name := strings.TrimSpace(in.Name.Value); name != "" {
			p.Name = patch.Of(name)
		}
	}
	if in.BirthDate.Set {
		d, err := parseBirthDate(in.BirthDate.Value)
		if err != nil {
			return err
		}
		if d == nil {
			p.BirthDate = patch.Null[datatypes.Date]()
		} else {
			p.BirthDate = patch.Of(*d)
		}
	}
	if err := s.patientRepo.Update(dbc, id, p); err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

func (s *patientService) Delete(ctx context.Context, id uint) error {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.patientRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	if existing == nil {
		return errPatientNotFound
	}
	if err := s.patientRepo.SoftDelete(dbc, id); err != nil {
		return fmt.Errorf("deactivate patient: %w", err)
	}
	s.log.Info("Patient deactivated", "patient_id", id)
	return nil
}

var errNameRequired = apierr.BadRequest("name_required", "Nome é obrigatório")

// parseBirthDate returns nil for a blank value.
func parseBirthDate(raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid_birth_date", "Data de nascimento inválida (use AAAA-MM-DD)")
	}
	d := datatypes.Date(t)
	return &d, nil
}

// FormatBirthDate renders a birth date as YYYY-MM-DD, or nil when unset.
func FormatBirthDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	return pointers.String(time.Time(*d).Format(birthDateLayout))
}
