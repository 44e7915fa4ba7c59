package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// maxNameAttempts bounds the search for a free file name when several
// uploads land in the same millisecond.
const maxNameAttempts = 10

// LocalStore writes resumes to a directory on local disk.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = constants.DefaultLocalUploadDir
	}
	return &LocalStore{dir: dir, now: time.Now}
}

// Save writes the resume as <unix-ms><ext> and returns its relative path.
func (s *LocalStore) Save(ctx context.Context, upload *ResumeUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ms := s.now().UnixMilli()
	ext := upload.Ext()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		path := filepath.Join(s.dir, strconv.FormatInt(ms+int64(attempt), 10)+ext)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create resume file: %w", err)
		}

		if _, err := io.Copy(file, upload.Body); err != nil {
			_ = file.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to write resume file: %w", err)
		}
		if err := file.Close(); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to close resume file: %w", err)
		}

		ref := filepath.ToSlash(path)
		log.Debug().Str("path", ref).Int64("size", upload.Size).Msg("Resume stored on disk")
		return ref, nil
	}

	return "", fmt.Errorf("failed to allocate resume file name in %s", s.dir)
}

// Delete removes the file behind ref. A file that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.FromSlash(ref)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove resume file: %w", err)
	}

	log.Debug().Str("path", ref).Msg("Resume removed from disk")
	return nil
}
