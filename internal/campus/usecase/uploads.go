package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-facilities/internal/campus/domain/repository"
	"campus-facilities/internal/shared/logger"
)

// Upload validation limits. Enforced here, before any network call; the
// blob store boundary itself does not validate input.
const (
	MaxUploadBytes  = 5 << 20 // 5 MiB per file
	imageMIMEPrefix = "image/"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds the upload size ceiling")
	ErrUnsupportedFileType = errors.New("file is not an image")
	ErrEmptyFile           = errors.New("file is empty")
)

// UploadFile is one file submitted for upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult reports the outcome for one file of a batch. A rejected
// or failed file never aborts its siblings.
type UploadResult struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Err  error  `json:"-"`
}

// UploadService validates image files and hands them to the blob store.
type UploadService struct {
	store repository.BlobStore
	log   logger.Logger
}

// NewUploadService creates the upload service.
func NewUploadService(store repository.BlobStore, log logger.Logger) *UploadService {
	return &UploadService{
		store: store,
		log:   log.WithComponent("upload-service"),
	}
}

// UploadImages uploads a batch of images. Each file is validated before
// any network call; validation failures are reported per file and the
// remaining files still go through. Results keep the input order.
func (s *UploadService) UploadImages(ctx context.Context, files []UploadFile) []UploadResult {
	results := make([]UploadResult, len(files))

	for i, f := range files {
		results[i].Name = f.Name

		if err := validateImage(f); err != nil {
			results[i].Err = err
			s.log.Warnf("rejected upload %q: %v", f.Name, err)
			continue
		}

		url, err := s.store.Upload(ctx, f.Name, f.ContentType, f.Data)
		if err != nil {
			results[i].Err = err
			s.log.Errorf("upload %q failed: %v", f.Name, err)
			continue
		}
		results[i].URL = url
	}

	return results
}

func validateImage(f UploadFile) error {
	if len(f.Data) == 0 {
		return ErrEmptyFile
	}
	if len(f.Data) > MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(f.Data))
	}
	if !strings.HasPrefix(f.ContentType, imageMIMEPrefix) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.ContentType)
	}
	return nil
}
