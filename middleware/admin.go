package middleware

import (
	"net/http"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewAdminMiddleware gates a route on the admin capability. It runs after
// the session middleware and checks the admin column of the freshly
// loaded user, an authenticated non-admin gets a 403 rather than a
// redirect loop.
func NewAdminMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		userID := c.MustGet("userID").(uint)

		var admin bool

		err := d.Model(model.User{}).
			Where("id = ?", userID).
			Select("admin").
			Find(&admin).
			Error
		if err != nil {
			c.String(http.StatusInternalServerError, "Internal server error (request %s)", requestID)
			c.Abort()

			zap.L().Error("Failed to check admin capability", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !admin {
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}

		c.Next()
	}
}
