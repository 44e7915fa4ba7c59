// Package storage persists uploaded resumes and returns an opaque reference
// that is stored on the job application.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// ResumeUpload is a resume file received from a candidate.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ext returns the lower-cased extension of the original file name.
func (u *ResumeUpload) Ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

// ResumeStore saves a resume and returns its reference. Delete removes a
// previously saved resume by that reference.
type ResumeStore interface {
	Save(ctx context.Context, upload *ResumeUpload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// NewResumeStore builds the backend selected by cfg.Backend, capped at
// cfg.MaxUploadBytes.
func NewResumeStore(ctx context.Context, cfg *config.StorageSettings) (ResumeStore, error) {
	var (
		store ResumeStore
		err   error
	)

	switch cfg.Backend {
	case constants.StorageBackendLocal, "":
		store = NewLocalStore(cfg.LocalDir)
	case constants.StorageBackendS3:
		store, err = NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}

	return WithSizeLimit(store, cfg.MaxUploadBytes), nil
}

type sizeLimitedStore struct {
	next     ResumeStore
	maxBytes int64
}

// WithSizeLimit rejects uploads larger than maxBytes with a 400 error.
// The body is buffered so backends always receive a seekable reader with
// a known length. A non-positive maxBytes uses the default limit.
func WithSizeLimit(store ResumeStore, maxBytes int64) ResumeStore {
	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxUploadBytes
	}
	return &sizeLimitedStore{next: store, maxBytes: maxBytes}
}

func (s *sizeLimitedStore) Save(ctx context.Context, upload *ResumeUpload) (string, error) {
	if upload == nil || upload.Body == nil {
		return "", utils.NewBadRequestError(constants.MsgResumeRequired)
	}
	if upload.Size > s.maxBytes {
		return "", utils.NewBadRequestError(constants.MsgResumeTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", utils.NewBadRequestError(constants.MsgResumeTooLarge)
	}
	if len(data) == 0 {
		return "", utils.NewBadRequestError(constants.MsgResumeRequired)
	}

	buffered := *upload
	buffered.Size = int64(len(data))
	buffered.Body = bytes.NewReader(data)

	return s.next.Save(ctx, &buffered)
}

func (s *sizeLimitedStore) Delete(ctx context.Context, ref string) error {
	return s.next.Delete(ctx, ref)
}
