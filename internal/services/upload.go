package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/imagehost"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

var allowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

type UploadService interface {
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type uploadService struct {
	log  *logger.Logger
	host imagehost.Host
}

func NewUploadService(log *logger.Logger, host imagehost.Host) UploadService {
	return &uploadService{log: log.With("service", "UploadService"), host: host}
}

func (s *uploadService) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", apierr.BadRequest("empty_filename", "Nenhum arquivo selecionado")
	}
	if !AllowedImageFile(filename) {
		return "", apierr.BadRequest("format_not_allowed", "Formato não permitido")
	}

	url, err := s.host.Upload(ctx, imagehost.Image{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	})
	observability.Current().IncUpload(string(s.host.Mode()), err == nil)
	if err != nil {
		s.log.Error("Image upload failed", "mode", s.host.Mode(), "error", err)
		return "", apierr.New(http.StatusInternalServerError, "upload_failed", fmt.Errorf("%s: %v", uploadFailurePrefix(s.host.Mode()), err))
	}
	s.log.Info("Image uploaded", "mode", s.host.Mode(), "url", url)
	return url, nil
}

// AllowedImageFile checks the extension, case-insensitively.
func AllowedImageFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return allowedImageExtensions[ext]
}

func uploadFailurePrefix(mode imagehost.Mode) string {
	switch mode {
	case imagehost.ModeLocal:
		return "Erro ao salvar arquivo localmente"
	case imagehost.ModeCloudinary:
		return "Erro ao fazer upload no Cloudinary"
	default:
		return "Erro ao fazer upload"
	}
}
