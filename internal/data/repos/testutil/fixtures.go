package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
)

func SeedProfessional(tb testing.TB, ctx context.Context, tx *gorm.DB, login, passwordHash string) *types.Professional {
	tb.Helper()
	p := &types.Professional{
		Name:     "Profissional " + login,
		Login:    login,
		Password: passwordHash,
		Role:     "Terapeuta",
		Active:   true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed professional: %v", err)
	}
	return p
}

func SeedPatient(tb testing.TB, ctx context.Context, tx *gorm.DB, professionalID uint, name string) *types.Patient {
	tb.Helper()
	p := &types.Patient{
		Name:           name,
		SupportLevel:   "Nível 1",
		ProfessionalID: professionalID,
		Active:         true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed patient: %v", err)
	}
	return p
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, order int) *types.Category {
	tb.Helper()
	c := &types.Category{Name: name, Color: "#4ECDC4", Icon: "📁", Order: order}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedPictogram(tb testing.TB, ctx context.Context, tx *gorm.DB, categoryID uint, name string, order int) *types.Pictogram {
	tb.Helper()
	p := &types.Pictogram{
		Name:       name,
		ImageURL:   types.DefaultPictogramImage,
		AudioText:  name,
		CategoryID: categoryID,
		Order:      order,
		Active:     true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pictogram: %v", err)
	}
	return p
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, patientID, professionalID uint, startedAt time.Time) *types.Session {
	tb.Helper()
	s := &types.Session{
		PatientID:      patientID,
		ProfessionalID: professionalID,
		StartedAt:      startedAt,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}
