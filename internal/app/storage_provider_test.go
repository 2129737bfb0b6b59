package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/caa-backend/internal/platform/imagehost"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type testHost struct{ mode imagehost.Mode }

func (h *testHost) Mode() imagehost.Mode { return h.mode }

func (h *testHost) Upload(context.Context, imagehost.Image) (string, error) {
	return "/static/images/x.png", nil
}

func TestClassifyImageHostBootstrapErrorInvalidConfig(t *testing.T) {
	srcErr := &imagehost.ConfigError{Mode: "gcs", Reason: "GCS_BUCKET is required"}

	err := classifyImageHostBootstrapError(imagehost.Config{Mode: "gcs"}, srcErr)

	var got *ImageHostBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected ImageHostBootstrapError, got=%T", err)
	}
	if got.Code != ImageHostBootstrapErrorInvalidConfig {
		t.Fatalf("code: want=%q got=%q", ImageHostBootstrapErrorInvalidConfig, got.Code)
	}
	if !errors.Is(err, srcErr) {
		t.Fatalf("cause not preserved")
	}
}

func TestClassifyImageHostBootstrapErrorConnectFailed(t *testing.T) {
	err := classifyImageHostBootstrapError(imagehost.Config{Mode: "s3"}, errors.New("dial tcp: connection refused"))

	if got := imageHostBootstrapErrorCode(err); got != ImageHostBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", ImageHostBootstrapErrorConnectFailed, got)
	}
}

func TestResolveImageHostInvalidMode(t *testing.T) {
	_, err := resolveImageHost(context.Background(), logger.NewNop(), Config{
		ImageHost: imagehost.Config{Mode: "ftp"},
	})
	if err == nil {
		t.Fatalf("resolveImageHost: expected error, got nil")
	}
	if got := imageHostBootstrapErrorCode(err); got != ImageHostBootstrapErrorInvalidConfig {
		t.Fatalf("code: want=%q got=%q", ImageHostBootstrapErrorInvalidConfig, got)
	}
}

func TestResolveImageHostPassesStaticDir(t *testing.T) {
	orig := newImageHost
	t.Cleanup(func() { newImageHost = orig })

	var captured imagehost.Config
	expected := &testHost{mode: imagehost.ModeLocal}
	newImageHost = func(_ context.Context, _ *logger.Logger, cfg imagehost.Config) (imagehost.Host, error) {
		captured = cfg
		return expected, nil
	}

	got, err := resolveImageHost(context.Background(), logger.NewNop(), Config{StaticDir: "public"})
	if err != nil {
		t.Fatalf("resolveImageHost: %v", err)
	}
	if got != expected {
		t.Fatalf("unexpected host: %#v", got)
	}
	if captured.StaticDir != "public" {
		t.Fatalf("static dir: got=%q", captured.StaticDir)
	}
}

func TestResolveImageHostConnectFailure(t *testing.T) {
	orig := newImageHost
	t.Cleanup(func() { newImageHost = orig })

	newImageHost = func(context.Context, *logger.Logger, imagehost.Config) (imagehost.Host, error) {
		return nil, errors.New("credentials not found")
	}

	_, err := resolveImageHost(context.Background(), logger.NewNop(), Config{
		ImageHost: imagehost.Config{Mode: "gcs", GCSBucket: "caa-images"},
	})
	if got := imageHostBootstrapErrorCode(err); got != ImageHostBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", ImageHostBootstrapErrorConnectFailed, got)
	}
}
