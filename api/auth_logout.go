package api

import (
	"net/http"

	"taskman/todo-web/pkg/session"

	"github.com/gin-gonic/gin"
)

// Logout clears the session cookie and sends the browser back to the
// login page. Idempotent, a request without a valid session just skips
// the audit entry.
func (a *API) Logout(c *gin.Context) {
	if tokenStr, err := c.Cookie(session.CookieName); err == nil {
		if ident, ok := session.Resolve(tokenStr); ok {
			a.Audit.Record(ident.UserID, "Logged out")
		}
	}

	session.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}
