package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoestore/internal/apperrors"
	"shoestore/internal/config"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestRules_Check(t *testing.T) {
	rules := Rules{MaxFileSize: 5 << 20, MaxFiles: 2}

	tests := []struct {
		name    string
		files   []*multipart.FileHeader
		wantErr string
	}{
		{"no files", nil, "No files uploaded"},
		{"too many", []*multipart.FileHeader{
			fileHeader("a.png", "image/png", 1),
			fileHeader("b.png", "image/png", 1),
			fileHeader("c.png", "image/png", 1),
		}, "Too many files"},
		{"not an image", []*multipart.FileHeader{fileHeader("a.pdf", "application/pdf", 1)}, "Only image files"},
		{"too large", []*multipart.FileHeader{fileHeader("a.jpg", "image/jpeg", 6 << 20)}, "exceeds"},
		{"ok", []*multipart.FileHeader{fileHeader("a.jpg", "image/jpeg", 1024), fileHeader("b.webp", "IMAGE/WEBP", 10)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Check(tt.files)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, apperrors.Message(err), tt.wantErr)
		})
	}
}

func TestObjectName(t *testing.T) {
	a := ObjectName("Photo.JPG")
	b := ObjectName("Photo.JPG")
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}

func TestLocalStorage_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "../escape.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "escape.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3Storage_Save(t *testing.T) {
	putter := new(mockPutter)
	cfg := config.S3Config{Bucket: "shoes", Region: "eu-west-1", Endpoint: "http://minio:9000", UsePathStyle: true, AccessKey: "k", SecretKey: "s"}

	s, err := NewS3Storage(context.Background(), cfg, WithClient(putter))
	require.NoError(t, err)

	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "shoes" &&
			aws.ToString(in.Key) == "uploads/a.png" &&
			aws.ToString(in.ContentType) == "image/png" &&
			bytes.Equal(body, []byte("img"))
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	url, err := s.Save(context.Background(), "a.png", "image/png", strings.NewReader("img"), 3)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/shoes/uploads/a.png", url)

	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()
	_, err = s.Save(context.Background(), "b.png", "image/png", strings.NewReader("img"), 3)
	assert.ErrorContains(t, err, "failed to upload uploads/b.png")

	putter.AssertExpectations(t)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "us-east-1"))
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com", publicBaseURL(config.S3Config{Bucket: "b"}, "us-east-1"))
	assert.Equal(t, "https://b.storage.example.com", publicBaseURL(config.S3Config{Bucket: "b", Endpoint: "https://storage.example.com"}, "us-east-1"))
	assert.Equal(t, "http://minio:9000/b", publicBaseURL(config.S3Config{Bucket: "b", Endpoint: "http://minio:9000", UsePathStyle: true}, "us-east-1"))
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(context.Background(), config.UploadConfig{Backend: "local", Dir: t.TempDir()}, config.S3Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), config.UploadConfig{Backend: "ftp"}, config.S3Config{}, nil)
	assert.Error(t, err)
}
