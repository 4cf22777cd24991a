package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"maintenatrack-backend/config"
	"maintenatrack-backend/internal/auth"
	"maintenatrack-backend/internal/db"
	"maintenatrack-backend/internal/model"
	"maintenatrack-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestAPI builds a full router over a fresh in-memory database.
func setupTestAPI(t *testing.T) (*gin.Engine, store.Store, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	cfg := &config.Config{}
	cfg.Server.LogCreatePerMinute = 100
	cfg.Server.SignupPerMinute = 100
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour

	appStore := store.NewGormStore(gormDB, zap.NewNop())
	return NewRouter(appStore, cfg, zap.NewNop()), appStore, cfg
}

// signupUser registers an account directly and returns a usable token.
func signupUser(t *testing.T, s store.Store, cfg *config.Config, username string) (*model.User, string) {
	t.Helper()
	user, err := s.CreateUser(context.Background(), username, "s3cret-pass", "", "")
	require.NoError(t, err)
	token, _, err := auth.GenerateToken([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewRouter_RequestIDHeader(t *testing.T) {
	router, _, _ := setupTestAPI(t)

	w := doJSON(t, router, http.MethodGet, "/api/logs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
