package service

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/config"

	"github.com/google/uuid"
)

var imageExtByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadService stores cargo photos on the local filesystem and hands
// back relative URLs served by the static uploads route.
type UploadService struct {
	cfg *config.Config
}

// NewUploadService creates an upload service instance.
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SavePhotoBase64 decodes a base64 photo payload, with or without a
// data-URI prefix, validates it and writes it under the upload directory.
// Returns the URL path the file is served at.
func (s *UploadService) SavePhotoBase64(payload string) (string, error) {
	raw := strings.TrimSpace(payload)
	if raw == "" {
		return "", fmt.Errorf("empty photo payload")
	}
	// data:image/jpeg;base64,<data>
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return "", fmt.Errorf("malformed data uri")
		}
		raw = raw[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode photo payload: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty photo payload")
	}
	if s.cfg.Upload.MaxSize > 0 && int64(len(data)) > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("photo exceeds %d bytes", s.cfg.Upload.MaxSize)
	}

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	contentType := http.DetectContentType(sniff)
	if len(s.cfg.Upload.AllowedTypes) > 0 && !isAllowedContentType(contentType, s.cfg.Upload.AllowedTypes) {
		return "", fmt.Errorf("photo content type not allowed: %s", contentType)
	}

	ext, ok := imageExtByContentType[strings.ToLower(contentType)]
	if !ok {
		ext = ".bin"
	}

	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	filename := uuid.New().String() + ext

	dir := filepath.Join(s.uploadDir(), year, month)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", err
	}

	// relative path; the client resolves it against its configured host
	return fmt.Sprintf("%s/%s/%s/%s", s.baseURL(), year, month, filename), nil
}

func (s *UploadService) uploadDir() string {
	dir := strings.TrimSpace(s.cfg.Upload.Dir)
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

func (s *UploadService) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Upload.BaseURL), "/")
	if base == "" {
		base = "/uploads"
	}
	return base
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(strings.TrimSpace(t), contentType) {
			return true
		}
	}
	return false
}
