package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:   config.JWTConfig{Secret: "test-secret"},
		Admin: config.AdminConfig{EmailDomain: "@school.test"},
	}
}

func tokenFor(t *testing.T, cfg *config.Config, email string) string {
	t.Helper()
	user := &model.User{Email: email}
	user.ID = 1
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.String(http.StatusOK, claims.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := newRouter(AuthMiddleware(cfg))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "garbage").Code)

	w := do(r, "/", tokenFor(t, cfg, "ana@test.dev"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@test.dev", w.Body.String())

	w = do(r, "/?token="+tokenFor(t, cfg, "ana@test.dev"), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := newRouter(TryAuthMiddleware(cfg))

	w := do(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/", "garbage")
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/", tokenFor(t, cfg, "ana@test.dev"))
	assert.Equal(t, "ana@test.dev", w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	cfg := testConfig()
	r := newRouter(AuthMiddleware(cfg), AdminMiddleware(cfg))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"other domain", tokenFor(t, cfg, "ana@test.dev"), http.StatusForbidden},
		{"suffix lookalike", tokenFor(t, cfg, "ana@school.test.evil"), http.StatusForbidden},
		{"admin domain", tokenFor(t, cfg, "staff@school.test"), http.StatusOK},
		{"case insensitive", tokenFor(t, cfg, "Staff@SCHOOL.test"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(r, "/", tt.token).Code)
		})
	}
}

func TestAdminMiddlewareWithoutDomainDeniesEveryone(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.EmailDomain = ""
	r := newRouter(AuthMiddleware(cfg), AdminMiddleware(cfg))

	assert.Equal(t, http.StatusForbidden, do(r, "/", tokenFor(t, cfg, "staff@school.test")).Code)
}
