package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/caa-backend/internal/clients/redis"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type Clients struct {
	// Redis is nil unless REDIS_ADDR is set; login sessions then live in the database.
	Redis *redis.LoginSessionStore
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var store *redis.LoginSessionStore
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		s, err := redis.NewLoginSessionStore(log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis session store: %w", err)
		}
		store = s
	}
	return Clients{Redis: store}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
