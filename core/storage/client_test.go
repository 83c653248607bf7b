package storage_test

import (
	"errors"
	"net/http"
	"testing"

	"screenshot-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"ValidConfig", storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "screenshots", Region: "us-east-1"}},
		{"EndpointWithHTTP", storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}},
		{"EndpointWithHTTPS", storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true, Region: "us-east-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, storage.IsNotFound(nil))
	assert.False(t, storage.IsNotFound(errors.New("dial tcp: refused")))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{StatusCode: http.StatusNotFound}))
	assert.False(t, storage.IsNotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}))
}

func TestIsPreconditionFailed(t *testing.T) {
	assert.False(t, storage.IsPreconditionFailed(nil))
	assert.False(t, storage.IsPreconditionFailed(errors.New("dial tcp: refused")))
	assert.True(t, storage.IsPreconditionFailed(minio.ErrorResponse{Code: "PreconditionFailed", StatusCode: http.StatusPreconditionFailed}))
	assert.True(t, storage.IsPreconditionFailed(minio.ErrorResponse{StatusCode: http.StatusPreconditionFailed}))
	assert.False(t, storage.IsPreconditionFailed(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
}
