package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/store"
)

var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type MediaService interface {
	List(ctx context.Context, offset, limit int) ([]models.Media, error)
	// Save writes an upload into the media directory and records it.
	Save(ctx context.Context, header *multipart.FileHeader, alt i18n.Text) (*models.Media, error)
	// Delete removes the document and its file.
	Delete(ctx context.Context, id string) error
}

type mediaService struct {
	repo      store.MediaRepository
	dir       string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

func NewMediaService(repo store.MediaRepository, dir, publicURL string, maxBytes int64) MediaService {
	return &mediaService{repo: repo, dir: dir, publicURL: publicURL, maxBytes: maxBytes, now: time.Now}
}

// usagePath is the public URL of a stored file.
func (s *mediaService) usagePath(filename string) string {
	if strings.HasPrefix(s.publicURL, "http://") || strings.HasPrefix(s.publicURL, "https://") {
		return strings.TrimSuffix(s.publicURL, "/") + "/" + filename
	}
	return path.Join("/", s.publicURL, filename)
}

func (s *mediaService) List(ctx context.Context, offset, limit int) ([]models.Media, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *mediaService) Save(ctx context.Context, header *multipart.FileHeader, alt i18n.Text) (*models.Media, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return nil, &ValidationError{Field: "file", Key: "validation.too_long"}
	}
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	mimeType := http.DetectContentType(head)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !allowedMediaTypes[mimeType] {
		return nil, &ValidationError{Field: "file", Key: "validation.invalid"}
	}

	filename := sanitizeFilename(header.Filename)
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	filename = fmt.Sprintf("%s_%d%s", name, s.now().Unix(), strings.ToLower(ext))

	fullPath := SafeJoin(s.dir, "", filename)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid media path")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, err
	}

	m := &models.Media{
		Filename: filename,
		URL:      s.usagePath(filename),
		Alt:      alt,
		MimeType: mimeType,
		Size:     size,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(head)); err == nil {
		m.Width, m.Height = cfg.Width, cfg.Height
	} else if f, err := os.Open(fullPath); err == nil {
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			m.Width, m.Height = cfg.Width, cfg.Height
		}
		f.Close()
	}

	if err := s.repo.Create(ctx, m); err != nil {
		_ = os.Remove(fullPath)
		return nil, err
	}
	logger.Info("media stored", zap.String("id", m.ID), zap.String("file", filename), zap.Int64("size", size))
	return m, nil
}

func (s *mediaService) Delete(ctx context.Context, id string) error {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	fullPath := SafeJoin(s.dir, "", m.Filename)
	if fullPath == "" {
		return nil
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("media file not removed", zap.String("path", fullPath), zap.Error(err))
	}
	return nil
}
