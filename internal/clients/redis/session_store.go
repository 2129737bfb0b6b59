package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const loginSessionKeyPrefix = "caa:login_session:"

type Options struct {
	Addr     string
	Password string
	DB       int
}

// LoginSessionStore keeps login sessions in Redis; expiry is delegated to key TTLs.
type LoginSessionStore struct {
	log *logger.Logger
	rdb *goredis.Client
	now func() time.Time
}

func NewLoginSessionStore(log *logger.Logger, opts Options) (*LoginSessionStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &LoginSessionStore{
		log: log.With("service", "RedisLoginSessionStore"),
		rdb: rdb,
		now: time.Now,
	}, nil
}

func loginSessionKey(id uuid.UUID) string { return loginSessionKeyPrefix + id.String() }

func (s *LoginSessionStore) Create(ctx context.Context, ls *types.LoginSession) error {
	if ls.ID == uuid.Nil {
		ls.ID = uuid.New()
	}
	if ls.CreatedAt.IsZero() {
		ls.CreatedAt = s.now().UTC()
	}
	ttl := ls.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("login session already expired")
	}
	raw, err := json.Marshal(ls)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, loginSessionKey(ls.ID), raw, ttl).Err()
}

func (s *LoginSessionStore) Get(ctx context.Context, id uuid.UUID) (*types.LoginSession, error) {
	raw, err := s.rdb.Get(ctx, loginSessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ls types.LoginSession
	if err := json.Unmarshal(raw, &ls); err != nil {
		s.log.Warn("Dropping unreadable login session", "session_id", id, "error", err)
		_ = s.rdb.Del(ctx, loginSessionKey(id)).Err()
		return nil, nil
	}
	if ls.Expired(s.now()) {
		return nil, nil
	}
	return &ls, nil
}

func (s *LoginSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.rdb.Del(ctx, loginSessionKey(id)).Err()
}

// Client exposes the underlying connection for health sampling.
func (s *LoginSessionStore) Client() *goredis.Client {
	if s == nil {
		return nil
	}
	return s.rdb
}

func (s *LoginSessionStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
