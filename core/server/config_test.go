package server_test

import (
	"testing"

	"screenshot-mirror/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"Default", "8080", false},
		{"Low", "1", false},
		{"Zero", "0", true},
		{"TooHigh", "70000", true},
		{"NotNumber", "http", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := server.Config{Port: tt.port}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":9090", server.Config{Port: "9090"}.Addr())
}
