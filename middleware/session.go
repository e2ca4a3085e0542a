package middleware

import (
	"errors"
	"net/http"

	"taskman/todo-web/model"
	"taskman/todo-web/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewSessionMiddleware resolves the session cookie into a user identity
// and stores userID/username in the gin context. Anything short of a
// valid session for an existing user redirects to the login page, this
// is a browser-facing app and unauthenticated is never an error page.
func NewSessionMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie(session.CookieName)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		ident, ok := session.Resolve(tokenStr)
		if !ok {
			session.Clear(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		// The token may outlive the account it was issued for, so the
		// row has to be checked again on every request
		var user model.User

		err = d.Where("id = ?", ident.UserID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				session.Clear(c)
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}

			c.String(http.StatusInternalServerError, "Internal server error (request %s)", requestID)
			c.Abort()

			zap.L().Error("Failed to load session user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Name)
		c.Next()
	}
}
