package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type GCSHost struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

func NewGCSHost(ctx context.Context, log *logger.Logger, bucket, publicBaseURL string, now func() time.Time) (*GCSHost, error) {
	client, err := storage.NewClient(ctx, gcsClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	hostLog := log.With("imagehost", "gcs")
	hostLog.Info("GCS image host ready", "bucket", bucket, "public_base_url", publicBaseURL)
	return &GCSHost{
		log:           hostLog,
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		now:           now,
	}, nil
}

// gcsClientOptions honours GOOGLE_APPLICATION_CREDENTIALS_JSON (inline JSON or a
// file path) and STORAGE_EMULATOR_HOST.
func gcsClientOptions() []option.ClientOption {
	if strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")) != "" {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	switch {
	case creds == "":
	case strings.HasPrefix(creds, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	default:
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}

func (h *GCSHost) Mode() Mode { return ModeGCS }

func (h *GCSHost) Upload(ctx context.Context, img Image) (string, error) {
	key := "pictogramas/" + ObjectName(h.now(), img.Filename)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := h.client.Bucket(h.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeOf(img, key)
	if _, err := io.Copy(w, bytes.NewReader(img.Data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return h.PublicURL(key), nil
}

func (h *GCSHost) PublicURL(key string) string {
	if h.publicBaseURL != "" {
		return publicURL(h.publicBaseURL, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.bucket, strings.TrimLeft(key, "/"))
}
