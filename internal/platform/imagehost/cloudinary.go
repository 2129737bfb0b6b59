package imagehost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const (
	cloudinaryBaseURL        = "https://api.cloudinary.com"
	cloudinaryDefaultFolder  = "pictogramas_caa"
	cloudinaryTransformation = "c_limit,h_500,w_500/q_auto:good"
)

type CloudinaryHost struct {
	log    *logger.Logger
	cfg    CloudinaryConfig
	client *resty.Client
	now    func() time.Time
}

type cloudinaryUploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type cloudinaryErrorResult struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCloudinaryHost talks to baseURL, or the public Cloudinary API when empty.
func NewCloudinaryHost(log *logger.Logger, cfg CloudinaryConfig, baseURL string) *CloudinaryHost {
	if strings.TrimSpace(cfg.Folder) == "" {
		cfg.Folder = cloudinaryDefaultFolder
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = cloudinaryBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")
	return &CloudinaryHost{
		log:    log.With("imagehost", "cloudinary"),
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

func (h *CloudinaryHost) Mode() Mode { return ModeCloudinary }

func (h *CloudinaryHost) Upload(ctx context.Context, img Image) (string, error) {
	params := map[string]string{
		"folder":         h.cfg.Folder,
		"timestamp":      strconv.FormatInt(h.now().Unix(), 10),
		"transformation": cloudinaryTransformation,
	}
	form := map[string]string{
		"api_key":   h.cfg.APIKey,
		"signature": cloudinarySignature(params, h.cfg.APISecret),
	}
	for k, v := range params {
		form[k] = v
	}

	var result cloudinaryUploadResult
	var apiErr cloudinaryErrorResult
	resp, err := h.client.R().
		SetContext(ctx).
		SetFileReader("file", SecureFilename(img.Filename), bytes.NewReader(img.Data)).
		SetFormData(form).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1_1/%s/image/upload", h.cfg.CloudName))
	if err != nil {
		return "", fmt.Errorf("cloudinary request: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(apiErr.Error.Message)
		if msg == "" {
			msg = resp.Status()
		}
		h.log.Warn("Cloudinary upload rejected", "status", resp.StatusCode(), "message", msg)
		return "", errors.New(msg)
	}
	if result.SecureURL == "" {
		return "", errors.New("cloudinary response missing secure_url")
	}
	return result.SecureURL, nil
}

// cloudinarySignature signs the sorted upload params the way the Cloudinary API expects.
func cloudinarySignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}
