package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiterInvalidPeriod(t *testing.T) {
	_, err := NewRateLimiter(100, "not-a-duration")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate limit period")
}

func TestRateLimiterEnforcesLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter, err := NewRateLimiter(2, "1m")
	require.NoError(t, err)

	router := gin.New()
	router.Use(limiter)
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do(), "third request in the window is rejected")
}
