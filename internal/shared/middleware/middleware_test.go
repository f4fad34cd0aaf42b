package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netshop-backend/internal/config"
	"netshop-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(m *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(Recovery())
	auth := r.Group("/", AuthMiddleware(m))
	auth.GET("/me", func(c *gin.Context) {
		id, err := GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	auth.GET("/admin", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)
	r := protectedRouter(m)
	userID := uuid.New()

	customer, err := m.GenerateAccessToken(userID, "c@netshop.vn", jwt.RoleCustomer)
	require.NoError(t, err)
	admin, err := m.GenerateAccessToken(uuid.New(), "a@netshop.vn", jwt.RoleAdmin)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "not-a-jwt").Code)
	})

	t.Run("customer sets user id", func(t *testing.T) {
		w := do(r, "/me", customer)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("customer forbidden on admin route", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(r, "/admin", customer).Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
	})
}

func TestRecovery_Returns500(t *testing.T) {
	w := do(protectedRouter(jwt.NewManager("secret", time.Hour)), "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_001")
}

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"first forwarded hop", "203.0.113.7, 10.0.0.1", "198.51.100.2", "10.0.0.9:5000", "203.0.113.7"},
		{"invalid forwarded falls to real ip", "unknown", "198.51.100.2", "10.0.0.9:5000", "198.51.100.2"},
		{"remote addr with port", "", "", "10.0.0.9:5000", "10.0.0.9"},
		{"nothing usable", "", "", "garbage", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveClientIP(tt.xff, tt.realIP, tt.remoteAddr))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ClientIPMiddleware(), RateLimitMiddleware(config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}))
	r.POST("/ipn", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/ipn", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.2"))
}
