package app

import (
	"time"

	"github.com/yungbote/caa-backend/internal/platform/envutil"
	"github.com/yungbote/caa-backend/internal/platform/imagehost"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const defaultSecretKey = "chave-secreta-desenvolvimento-2024"

type Config struct {
	Env     string
	Port    string
	Version string

	DatabaseURL string

	SecretKey       string
	SessionLifetime time.Duration
	CookieSecure    bool
	JanitorInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StaticDir      string
	MaxUploadBytes int64
	ImageHost      imagehost.Config
	PatientAvatars bool

	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	SeedOnStart     bool
	SeedCatalogFile string

	MetricsEnabled bool
	// MetricsAddr serves /metrics on its own listener; empty mounts it on the API router.
	MetricsAddr     string
	MetricsInterval time.Duration

	OtelEnabled     bool
	OtelEndpoint    string
	OtelInsecure    bool
	OtelSampleRatio float64
}

// LoadConfig reads the process environment; New loads .env into it first.
func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Env:     envutil.String("APP_ENV", "development"),
		Port:    envutil.String("PORT", "5000"),
		Version: envutil.String("APP_VERSION", "2.0.0"),

		DatabaseURL: envutil.String("DATABASE_URL", "sqlite://database/comunicacao.db"),

		SecretKey:       envutil.String("SECRET_KEY", defaultSecretKey),
		SessionLifetime: envutil.Duration("SESSION_LIFETIME", 2*time.Hour),
		CookieSecure:    envutil.Bool("COOKIE_SECURE", false),
		JanitorInterval: envutil.Duration("SESSION_JANITOR_INTERVAL", 15*time.Minute),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),

		StaticDir:      envutil.String("STATIC_DIR", "static"),
		MaxUploadBytes: envutil.Int64("MAX_UPLOAD_BYTES", 5<<20),
		PatientAvatars: envutil.Bool("PATIENT_AVATARS", true),

		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", nil),
		RequestTimeout:  envutil.Duration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		SeedOnStart:     envutil.Bool("SEED_ON_START", false),
		SeedCatalogFile: envutil.String("SEED_CATALOG_FILE", ""),

		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:     envutil.String("METRICS_ADDR", ""),
		MetricsInterval: envutil.Duration("METRICS_INTERVAL", 15*time.Second),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
	}
	cfg.ImageHost = imagehost.Config{
		Mode:      envutil.String("IMAGE_STORAGE_MODE", ""),
		StaticDir: cfg.StaticDir,
		Cloudinary: imagehost.CloudinaryConfig{
			CloudName: envutil.String("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    envutil.String("CLOUDINARY_API_KEY", ""),
			APISecret: envutil.String("CLOUDINARY_API_SECRET", ""),
			Folder:    envutil.String("CLOUDINARY_FOLDER", "caa"),
		},
		GCSBucket:     envutil.String("GCS_BUCKET", ""),
		S3Bucket:      envutil.String("S3_BUCKET", ""),
		S3Region:      envutil.String("S3_REGION", ""),
		S3Endpoint:    envutil.String("S3_ENDPOINT", ""),
		PublicBaseURL: envutil.String("PUBLIC_BASE_URL", ""),
	}

	if cfg.SecretKey == defaultSecretKey && cfg.Env == "production" {
		log.Warn("SECRET_KEY is the development default; set it in production")
	}
	return cfg
}
