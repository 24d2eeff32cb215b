package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/driveformv/mvt-warehousing-sub000/config"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/utils"
)

// AdminKey returns a middleware that guards operator endpoints with a shared
// key supplied in the X-Admin-Key header. A bcrypt hash (ADMIN_API_KEY_HASH)
// takes precedence over the plain key; with neither configured, all admin
// requests are rejected.
func AdminKey(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		if key == "" {
			response.Unauthorized(c, "admin key required")
			c.Abort()
			return
		}
		ok := false
		if cfg.APIKeyHash != "" {
			ok = utils.CheckKeyHash(key, cfg.APIKeyHash)
		} else {
			ok = utils.CheckKey(key, cfg.APIKey)
		}
		if !ok {
			response.Unauthorized(c, "invalid admin key")
			c.Abort()
			return
		}
		c.Next()
	}
}
