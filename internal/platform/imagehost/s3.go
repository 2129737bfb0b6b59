package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

type S3Host struct {
	log    *logger.Logger
	client *s3.Client
	cfg    S3Config
	now    func() time.Time
}

func NewS3Host(ctx context.Context, log *logger.Logger, cfg S3Config, now func() time.Time) (*S3Host, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = awsCfg.Region
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	if now == nil {
		now = time.Now
	}
	hostLog := log.With("imagehost", "s3")
	hostLog.Info("S3 image host ready", "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &S3Host{log: hostLog, client: client, cfg: cfg, now: now}, nil
}

func (h *S3Host) Mode() Mode { return ModeS3 }

func (h *S3Host) Upload(ctx context.Context, img Image) (string, error) {
	key := "pictogramas/" + ObjectName(h.now(), img.Filename)
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(contentTypeOf(img, key)),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return h.PublicURL(key), nil
}

func (h *S3Host) PublicURL(key string) string {
	key = strings.TrimLeft(key, "/")
	switch {
	case h.cfg.PublicBaseURL != "":
		return publicURL(h.cfg.PublicBaseURL, key)
	case h.cfg.Endpoint != "":
		return publicURL(h.cfg.Endpoint, h.cfg.Bucket+"/"+key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.cfg.Bucket, h.cfg.Region, key)
	}
}
