package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/caa-backend/internal/data/repos"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

// LoginSessionStore is where server-side login sessions live. Get returns nil
// for unknown or expired sessions.
type LoginSessionStore interface {
	Create(ctx context.Context, ls *types.LoginSession) error
	Get(ctx context.Context, id uuid.UUID) (*types.LoginSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpiredSessionPurger is implemented by stores that do not expire rows on their own.
type ExpiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type dbLoginSessionStore struct {
	log  *logger.Logger
	repo repos.LoginSessionRepo
	now  func() time.Time
}

func NewDBLoginSessionStore(log *logger.Logger, repo repos.LoginSessionRepo) LoginSessionStore {
	return &dbLoginSessionStore{
		log:  log.With("service", "DBLoginSessionStore"),
		repo: repo,
		now:  time.Now,
	}
}

func (s *dbLoginSessionStore) Create(ctx context.Context, ls *types.LoginSession) error {
	_, err := s.repo.Create(dbctx.Context{Ctx: ctx}, ls)
	return err
}

func (s *dbLoginSessionStore) Get(ctx context.Context, id uuid.UUID) (*types.LoginSession, error) {
	return s.repo.GetValid(dbctx.Context{Ctx: ctx}, id, s.now().UTC())
}

func (s *dbLoginSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(dbctx.Context{Ctx: ctx}, id)
}

func (s *dbLoginSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(dbctx.Context{Ctx: ctx}, s.now().UTC())
}

// RunSessionJanitor purges expired sessions every interval until ctx is done.
func RunSessionJanitor(ctx context.Context, log *logger.Logger, purger ExpiredSessionPurger, interval time.Duration) error {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				log.Warn("Login session purge failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("Purged expired login sessions", "count", n)
			}
		}
	}
}
