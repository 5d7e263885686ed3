package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"campus-facilities/internal/campus/usecase"
	apperrors "campus-facilities/internal/shared/errors"
	"campus-facilities/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, filename, contentType, data)
	return args.String(0), args.Error(1)
}

func pngFile(name string, size int) usecase.UploadFile {
	return usecase.UploadFile{
		Name:        name,
		ContentType: "image/png",
		Data:        bytes.Repeat([]byte{0x1}, size),
	}
}

func TestUploadImages_Success(t *testing.T) {
	store := &mockBlobStore{}
	store.On("Upload", mock.Anything, "plan.png", "image/png", mock.Anything).
		Return("https://storage/buckets/b/files/f1/view", nil)

	svc := usecase.NewUploadService(store, logger.NewLogger())
	results := svc.UploadImages(context.Background(), []usecase.UploadFile{pngFile("plan.png", 128)})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "https://storage/buckets/b/files/f1/view", results[0].URL)
	store.AssertExpectations(t)
}

func TestUploadImages_RejectsOversizedFileBeforeNetwork(t *testing.T) {
	store := &mockBlobStore{}
	svc := usecase.NewUploadService(store, logger.NewLogger())

	results := svc.UploadImages(context.Background(), []usecase.UploadFile{
		pngFile("huge.png", usecase.MaxUploadBytes+1),
	})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, usecase.ErrFileTooLarge)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImages_RejectsNonImageMIME(t *testing.T) {
	store := &mockBlobStore{}
	svc := usecase.NewUploadService(store, logger.NewLogger())

	results := svc.UploadImages(context.Background(), []usecase.UploadFile{
		{Name: "notes.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, usecase.ErrUnsupportedFileType)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImages_RejectsEmptyFile(t *testing.T) {
	store := &mockBlobStore{}
	svc := usecase.NewUploadService(store, logger.NewLogger())

	results := svc.UploadImages(context.Background(), []usecase.UploadFile{
		{Name: "empty.png", ContentType: "image/png"},
	})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, usecase.ErrEmptyFile)
}

func TestUploadImages_RejectedFileDoesNotAbortSiblings(t *testing.T) {
	store := &mockBlobStore{}
	store.On("Upload", mock.Anything, "ok.png", "image/png", mock.Anything).
		Return("https://storage/ok", nil)

	svc := usecase.NewUploadService(store, logger.NewLogger())
	results := svc.UploadImages(context.Background(), []usecase.UploadFile{
		{Name: "notes.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
		pngFile("ok.png", 64),
	})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "https://storage/ok", results[1].URL)
}

func TestUploadImages_StoreFailureSurfacesPerFile(t *testing.T) {
	store := &mockBlobStore{}
	store.On("Upload", mock.Anything, "first.png", "image/png", mock.Anything).
		Return("", apperrors.ErrStorageRateLimited)
	store.On("Upload", mock.Anything, "second.png", "image/png", mock.Anything).
		Return("https://storage/second", nil)

	svc := usecase.NewUploadService(store, logger.NewLogger())
	results := svc.UploadImages(context.Background(), []usecase.UploadFile{
		pngFile("first.png", 64),
		pngFile("second.png", 64),
	})

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, apperrors.ErrStorageRateLimited)
	assert.NoError(t, results[1].Err)
}

func TestUploadImages_UnknownStoreError(t *testing.T) {
	store := &mockBlobStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("unexpected"))

	svc := usecase.NewUploadService(store, logger.NewLogger())
	results := svc.UploadImages(context.Background(), []usecase.UploadFile{pngFile("a.png", 1)})

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.False(t, apperrors.IsStorage(results[0].Err))
}
