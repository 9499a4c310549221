package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

// newGate builds a router with the production middleware chain and handlers
// that count how often a request actually reaches them.
func newGate(cfg *config.Config, writes *int) *gin.Engine {
	r := gin.New()

	api := r.Group("/api", AuthMiddleware(cfg))
	api.POST("/things", func(c *gin.Context) {
		*writes++
		c.Status(http.StatusOK)
	})

	teacher := api.Group("/teacher", RoleMiddleware(model.Teacher, model.Admin))
	teacher.POST("/things", func(c *gin.Context) {
		*writes++
		c.Status(http.StatusOK)
	})

	return r
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()

	user := &model.User{
		UUIDBase: model.UUIDBase{ID: "user-1"},
		Email:    "user@example.com",
		Role:     role,
	}
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return token
}

func TestAuthGate(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name       string
		path       string
		authHeader func(t *testing.T) string
		wantStatus int
		wantWrite  bool
	}{
		{
			name:       "missing header rejected",
			path:       "/api/things",
			authHeader: func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed scheme rejected",
			path:       "/api/things",
			authHeader: func(t *testing.T) string { return "Token abc" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token rejected",
			path:       "/api/things",
			authHeader: func(t *testing.T) string { return "Bearer not.a.jwt" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token signed with another key rejected",
			path: "/api/things",
			authHeader: func(t *testing.T) string {
				other := testConfig()
				other.JWT.Secret = "another-secret-another-secret-!!!!!!"
				return "Bearer " + tokenFor(t, other, model.Student)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "student passes the auth gate",
			path: "/api/things",
			authHeader: func(t *testing.T) string {
				return "Bearer " + tokenFor(t, cfg, model.Student)
			},
			wantStatus: http.StatusOK,
			wantWrite:  true,
		},
		{
			name: "student blocked from instructor routes",
			path: "/api/teacher/things",
			authHeader: func(t *testing.T) string {
				return "Bearer " + tokenFor(t, cfg, model.Student)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "teacher reaches instructor routes",
			path: "/api/teacher/things",
			authHeader: func(t *testing.T) string {
				return "Bearer " + tokenFor(t, cfg, model.Teacher)
			},
			wantStatus: http.StatusOK,
			wantWrite:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writes := 0
			router := newGate(cfg, &writes)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if header := tt.authHeader(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantWrite {
				assert.Equal(t, 1, writes, "request should reach the handler")
			} else {
				assert.Zero(t, writes, "rejected request must not reach the handler")
			}
		})
	}
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := testConfig()

	r := gin.New()
	r.GET("/open", TryAuthMiddleware(cfg), func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.String(http.StatusOK, claims.UserID)
			return
		}
		c.String(http.StatusOK, "guest")
	})

	t.Run("guest allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "guest", rec.Body.String())
	})

	t.Run("token personalizes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("bad token still allowed as guest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "guest", rec.Body.String())
	})
}
