package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/caa-backend/internal/platform/imagehost"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

var newImageHost = imagehost.New

type ImageHostBootstrapErrorCode string

const (
	ImageHostBootstrapErrorInvalidConfig ImageHostBootstrapErrorCode = "invalid_config"
	ImageHostBootstrapErrorConnectFailed ImageHostBootstrapErrorCode = "connect_failed"
)

type ImageHostBootstrapError struct {
	Code  ImageHostBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *ImageHostBootstrapError) Error() string {
	if e == nil {
		return "image host bootstrap failed"
	}
	return fmt.Sprintf("image host bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *ImageHostBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveImageHost(ctx context.Context, log *logger.Logger, cfg Config) (imagehost.Host, error) {
	hostCfg := cfg.ImageHost
	if hostCfg.StaticDir == "" {
		hostCfg.StaticDir = cfg.StaticDir
	}

	mode, err := imagehost.ResolveMode(hostCfg)
	if err != nil {
		classified := classifyImageHostBootstrapError(hostCfg, err)
		log.Error("Image host selection failed", "mode", hostCfg.Mode, "error_code", imageHostBootstrapErrorCode(classified), "error", err)
		return nil, classified
	}
	log.Info("Selecting image host", "mode", mode, "configured_mode", hostCfg.Mode)

	host, err := newImageHost(ctx, log, hostCfg)
	if err != nil {
		classified := classifyImageHostBootstrapError(hostCfg, err)
		log.Error("Image host bootstrap failed", "mode", mode, "error_code", imageHostBootstrapErrorCode(classified), "error", err)
		return nil, classified
	}
	return host, nil
}

func classifyImageHostBootstrapError(hostCfg imagehost.Config, err error) error {
	var cfgErr *imagehost.ConfigError
	if errors.As(err, &cfgErr) {
		return &ImageHostBootstrapError{
			Code:  ImageHostBootstrapErrorInvalidConfig,
			Mode:  hostCfg.Mode,
			Cause: err,
		}
	}
	return &ImageHostBootstrapError{
		Code:  ImageHostBootstrapErrorConnectFailed,
		Mode:  hostCfg.Mode,
		Cause: err,
	}
}

func imageHostBootstrapErrorCode(err error) ImageHostBootstrapErrorCode {
	var bootstrapErr *ImageHostBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return ImageHostBootstrapErrorConnectFailed
}
