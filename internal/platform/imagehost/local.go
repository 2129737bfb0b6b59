package imagehost

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/yungbote/caa-backend/internal/platform/imaging"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

// LocalHost writes into <staticDir>/images and serves from /static/images.
type LocalHost struct {
	log       *logger.Logger
	imagesDir string
	now       func() time.Time
}

func NewLocalHost(log *logger.Logger, staticDir string, now func() time.Time) (*LocalHost, error) {
	if strings.TrimSpace(staticDir) == "" {
		staticDir = "static"
	}
	dir := filepath.Join(staticDir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	hostLog := log.With("imagehost", "local")
	hostLog.Info("Local image host ready", "dir", dir)
	return &LocalHost{log: hostLog, imagesDir: dir, now: now}, nil
}

func (h *LocalHost) Mode() Mode { return ModeLocal }

func (h *LocalHost) Upload(ctx context.Context, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := ObjectName(h.now(), img.Filename)
	data, resized, err := imaging.FitWithin(img.Data, filepath.Ext(name), imaging.MaxWidth, imaging.MaxHeight)
	if err != nil {
		return "", err
	}
	if resized {
		h.log.Debug("Image downscaled", "file", name)
	}
	if err := os.WriteFile(filepath.Join(h.imagesDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join("/static/images", name), nil
}
