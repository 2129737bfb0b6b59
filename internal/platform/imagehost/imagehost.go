package imagehost

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Mode string

const (
	ModeLocal      Mode = "local"
	ModeCloudinary Mode = "cloudinary"
	ModeGCS        Mode = "gcs"
	ModeS3         Mode = "s3"
)

// Image is one uploaded file, already read into memory.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Host stores an image and returns the URL clients should use to fetch it.
type Host interface {
	Upload(ctx context.Context, img Image) (string, error)
	Mode() Mode
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudinaryConfig) Complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Config struct {
	Mode          string
	StaticDir     string
	Cloudinary    CloudinaryConfig
	GCSBucket     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	PublicBaseURL string
}

type ConfigError struct {
	Mode   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid image host config"
	}
	return fmt.Sprintf("invalid IMAGE_STORAGE_MODE=%q: %s", e.Mode, e.Reason)
}

// ResolveMode picks the host from IMAGE_STORAGE_MODE. When unset, complete
// Cloudinary credentials select cloudinary, otherwise files stay local.
func ResolveMode(cfg Config) (Mode, error) {
	raw := strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch Mode(raw) {
	case "":
		if cfg.Cloudinary.Complete() {
			return ModeCloudinary, nil
		}
		return ModeLocal, nil
	case ModeLocal:
		return ModeLocal, nil
	case ModeCloudinary:
		if !cfg.Cloudinary.Complete() {
			return "", &ConfigError{Mode: raw, Reason: "CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required"}
		}
		return ModeCloudinary, nil
	case ModeGCS:
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return "", &ConfigError{Mode: raw, Reason: "GCS_BUCKET is required"}
		}
		return ModeGCS, nil
	case ModeS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return "", &ConfigError{Mode: raw, Reason: "S3_BUCKET is required"}
		}
		return ModeS3, nil
	default:
		return "", &ConfigError{Mode: cfg.Mode, Reason: "allowed: local, cloudinary, gcs, s3"}
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SecureFilename reduces a client-supplied name to a safe basename.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "imagem"
	}
	return name
}

// ObjectName prefixes the sanitized filename with a second-resolution timestamp.
func ObjectName(now time.Time, filename string) string {
	return now.Format("20060102_150405") + "_" + SecureFilename(filename)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func contentTypeOf(img Image, key string) string {
	if ct := strings.TrimSpace(img.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return contentTypeForKey(key)
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
