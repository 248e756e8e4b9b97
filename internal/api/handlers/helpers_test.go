package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harborcrm/harbor/internal/api/middleware"
	"github.com/harborcrm/harbor/internal/audit"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// memAuditStore collects audit logs in memory for assertions.
type memAuditStore struct {
	logs []*models.AuditLog
}

func (m *memAuditStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

// testIdentity returns a fixed org/user pair and a middleware that
// injects them, standing in for the real identity resolver.
func testIdentity() (*models.Organization, *models.User, gin.HandlerFunc) {
	org := models.NewDefaultOrganization()
	user := models.NewUser(org.ID, "alice@example.com", "Alice", models.UserRoleStandard)
	inject := func(c *gin.Context) {
		c.Set(string(middleware.OrgContextKey), org)
		c.Set(string(middleware.UserContextKey), user)
		c.Next()
	}
	return org, user, inject
}

// newTestRouter builds a gin engine with injected identity and the
// given route registration.
func newTestRouter(inject gin.HandlerFunc, register func(r *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(inject)
	register(group)
	return router
}

// doJSON performs a request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func testRecorder() (*audit.Recorder, *memAuditStore) {
	store := &memAuditStore{}
	return audit.NewRecorder(store, zerolog.Nop()), store
}
