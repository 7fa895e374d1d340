package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/config"
	"github.com/market-meet/api-go/routes"
)

// setupRouter builds the full application router over a fresh in-memory
// database. A single connection keeps every request on the same sqlite
// instance.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	r := gin.New()
	routes.SetupRoutes(r, db, nil)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requestPath(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// createUser registers an account over HTTP and logs it in, returning the
// bearer token and user id.
func createUser(t *testing.T, r *gin.Engine, username string) (string, uint) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/users/create", "", gin.H{
		"username":   username,
		"email":      fmt.Sprintf("%s@example.com", username),
		"password":   "password123",
		"birth_date": "15/06/1995",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID := uint(decodeBody(t, w)["userId"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decodeBody(t, w)["token"].(string)

	return token, userID
}

// createPost makes a post over HTTP and returns its id.
func createPost(t *testing.T, r *gin.Engine, token string, body gin.H) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/posts/create", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["postId"].(float64))
}
