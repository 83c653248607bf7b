package auth

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		path   string
		key    string
		status int
	}{
		{"NoKeyConfigured", Config{}, "/mirror/status", "", fiber.StatusOK},
		{"ValidKey", Config{ApiKey: "secret"}, "/mirror/status", "secret", fiber.StatusOK},
		{"MissingKey", Config{ApiKey: "secret"}, "/mirror/status", "", fiber.StatusUnauthorized},
		{"WrongKey", Config{ApiKey: "secret"}, "/mirror/status", "guess", fiber.StatusUnauthorized},
		{"Skipped", Config{ApiKey: "secret", Skip: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		}}, "/swagger/index.html", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set(Header, tt.key)
			}

			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
