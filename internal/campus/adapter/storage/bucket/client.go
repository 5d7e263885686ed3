package bucket

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"campus-facilities/internal/campus/config"
	apperrors "campus-facilities/internal/shared/errors"
	"campus-facilities/internal/shared/logger"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client uploads files to a managed object-storage bucket over its HTTP
// API and returns publicly dereferenceable view URLs. It performs no
// input validation of its own; it surfaces the store's failure reasons
// as distinguishable errors.
type Client struct {
	http      *resty.Client
	endpoint  string
	projectID string
	bucketID  string
	log       logger.Logger
}

type fileResponse struct {
	ID string `json:"$id"`
}

// NewClient creates a bucket client from the storage configuration.
func NewClient(cfg *config.StorageConfig, log logger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetHeader("X-Appwrite-Project", cfg.ProjectID).
		SetHeader("X-Appwrite-Key", cfg.APIKey)

	return &Client{
		http:      httpClient,
		endpoint:  cfg.Endpoint,
		projectID: cfg.ProjectID,
		bucketID:  cfg.BucketID,
		log:       log.WithComponent("bucket-client"),
	}
}

// Upload stores one file under a freshly generated identifier and returns
// the public view URL for it.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	fileID := uuid.NewString()

	var file fileResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("fileId", "", "", bytes.NewReader([]byte(fileID))).
		SetMultipartField("file", filename, contentType, bytes.NewReader(data)).
		SetResult(&file).
		Post(fmt.Sprintf("/storage/buckets/%s/files", c.bucketID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	if resp.IsError() {
		return "", storageError(resp.StatusCode())
	}

	if file.ID == "" {
		file.ID = fileID
	}

	url := fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		c.endpoint, c.bucketID, file.ID, c.projectID)

	c.log.WithFields(map[string]interface{}{
		"fileId": file.ID,
		"bytes":  len(data),
	}).Debug("uploaded file to bucket")

	return url, nil
}

// storageError maps the store's HTTP error codes onto the distinguishable
// failure reasons callers switch on.
func storageError(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrStorageUnauthorized
	case http.StatusRequestEntityTooLarge:
		return apperrors.ErrStoragePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return apperrors.ErrStorageUnsupportedMedia
	case http.StatusTooManyRequests:
		return apperrors.ErrStorageRateLimited
	default:
		if status >= http.StatusInternalServerError {
			return apperrors.ErrStorageUnavailable
		}
		return fmt.Errorf("storage: unexpected status %d", status)
	}
}
