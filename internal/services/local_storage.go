package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"draperads/internal/utils/logger"
)

// LocalStorage writes uploads under a directory served at /uploads.
type LocalStorage struct {
	dir     string
	baseURL string
	logger  *logger.Logger
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	log := logger.New("local_storage")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, log.Error("Failed to create upload directory %s", err, dir)
	}
	return &LocalStorage{dir: dir, baseURL: "/uploads", logger: log}, nil
}

// Dir is the directory files are written to.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save stores data under a generated unique name whose extension follows
// contentType, and returns the served URL and the stored file name.
func (s *LocalStorage) Save(ctx context.Context, data []byte, filename, contentType string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name := uuid.New().String() + ExtensionFor(contentType)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", s.logger.Error("Failed to write %s", err, path)
	}

	s.logger.Info("📁 Stored %s as %s (%s, %d bytes)", filename, name, contentType, len(data))
	return fmt.Sprintf("%s/%s", s.baseURL, name), name, nil
}
