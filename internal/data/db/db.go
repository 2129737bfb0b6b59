package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const DefaultSQLitePath = "database/comunicacao.db"

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Target is a parsed DATABASE_URL.
type Target struct {
	Driver Driver
	DSN    string
}

// ParseURL accepts postgres://, postgresql:// and sqlite://<path> URLs.
// An empty URL selects the default SQLite file.
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Target{Driver: DriverSQLite, DSN: DefaultSQLitePath}, nil
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Target{Driver: DriverPostgres, DSN: raw}, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return Target{}, fmt.Errorf("sqlite url %q has no path", raw)
		}
		return Target{Driver: DriverSQLite, DSN: path}, nil
	default:
		return Target{}, fmt.Errorf("unsupported DATABASE_URL scheme in %q", raw)
	}
}

type Service struct {
	db     *gorm.DB
	driver Driver
	log    *logger.Logger
}

func NewService(logg *logger.Logger, databaseURL string) (*Service, error) {
	serviceLog := logg.With("service", "DatabaseService")

	target, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	}

	var dialector gorm.Dialector
	switch target.Driver {
	case DriverPostgres:
		dialector = postgres.Open(target.DSN)
	case DriverSQLite:
		if dir := filepath.Dir(target.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dialector = sqlite.Open(target.DSN + "?_busy_timeout=5000&_journal_mode=WAL")
	}

	theDB, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target.Driver, err)
	}
	if target.Driver == DriverSQLite {
		// one writer at a time keeps SQLite from returning SQLITE_BUSY under load
		if sqlDB, err := theDB.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	serviceLog.Info("Database connected", "driver", target.Driver)
	return &Service{db: theDB, driver: target.Driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() Driver { return s.driver }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
