package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos"
	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	"github.com/yungbote/caa-backend/internal/platform/ctxutil"
	"github.com/yungbote/caa-backend/internal/platform/imagehost"
)

type testRepos struct {
	db            *gorm.DB
	professionals repos.ProfessionalRepo
	loginSessions repos.LoginSessionRepo
	patients      repos.PatientRepo
	categories    repos.CategoryRepo
	pictograms    repos.PictogramRepo
	sessions      repos.SessionRepo
	events        repos.SelectionEventRepo
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return testRepos{
		db:            db,
		professionals: repos.NewProfessionalRepo(db, log),
		loginSessions: repos.NewLoginSessionRepo(db, log),
		patients:      repos.NewPatientRepo(db, log),
		categories:    repos.NewCategoryRepo(db, log),
		pictograms:    repos.NewPictogramRepo(db, log),
		sessions:      repos.NewSessionRepo(db, log),
		events:        repos.NewSelectionEventRepo(db, log),
	}
}

func asProfessional(id uint) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		ProfessionalID: id,
		SessionID:      uuid.New(),
	})
}

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeHost struct {
	mode    imagehost.Mode
	err     error
	uploads []imagehost.Image
}

func (h *fakeHost) Mode() imagehost.Mode { return h.mode }

func (h *fakeHost) Upload(ctx context.Context, img imagehost.Image) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	h.uploads = append(h.uploads, img)
	return "/static/images/" + img.Filename, nil
}
