package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveformv/mvt-warehousing-sub000/config"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/utils"
)

func adminRouter(cfg config.AdminConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminKey(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func adminGet(r *gin.Engine, key string) int {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAdminKeyPlainMatch(t *testing.T) {
	r := adminRouter(config.AdminConfig{APIKey: "secret"})

	assert.Equal(t, http.StatusOK, adminGet(r, "secret"))
	assert.Equal(t, http.StatusUnauthorized, adminGet(r, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, adminGet(r, ""))
}

func TestAdminKeyHashTakesPrecedence(t *testing.T) {
	hash, err := utils.HashKey("hashed-secret")
	require.NoError(t, err)
	r := adminRouter(config.AdminConfig{APIKey: "plain-secret", APIKeyHash: hash})

	assert.Equal(t, http.StatusOK, adminGet(r, "hashed-secret"))
	// The plain key is ignored once a hash is configured.
	assert.Equal(t, http.StatusUnauthorized, adminGet(r, "plain-secret"))
}

func TestAdminKeyRejectsAllWhenUnconfigured(t *testing.T) {
	r := adminRouter(config.AdminConfig{})

	assert.Equal(t, http.StatusUnauthorized, adminGet(r, "anything"))
	assert.Equal(t, http.StatusUnauthorized, adminGet(r, ""))
}
