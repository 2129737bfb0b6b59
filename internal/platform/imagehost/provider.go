package imagehost

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/caa-backend/internal/platform/logger"
)

// New builds the host selected by cfg.
func New(ctx context.Context, log *logger.Logger, cfg Config) (Host, error) {
	mode, err := ResolveMode(cfg)
	if err != nil {
		return nil, err
	}
	now := time.Now
	switch mode {
	case ModeLocal:
		return NewLocalHost(log, cfg.StaticDir, now)
	case ModeCloudinary:
		return NewCloudinaryHost(log, cfg.Cloudinary, ""), nil
	case ModeGCS:
		return NewGCSHost(ctx, log, cfg.GCSBucket, cfg.PublicBaseURL, now)
	case ModeS3:
		return NewS3Host(ctx, log, S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.PublicBaseURL,
		}, now)
	default:
		return nil, fmt.Errorf("unsupported image host mode %q", mode)
	}
}
