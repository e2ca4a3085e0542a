package api

import (
	"errors"
	"net/http"
	"strings"

	"taskman/todo-web/model"
	"taskman/todo-web/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// One message for both an unknown username and a wrong password, so the
// form can't be used to enumerate accounts.
const invalidCredentialsMsg = "Invalid username or password."

func (a *API) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (a *API) Login(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user model.User

	err := a.DB.Where("name = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.Argon.DummyVerify(password)

			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"Message": invalidCredentialsMsg,
			})
			return
		}

		internalError(c, requestID)

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Message": invalidCredentialsMsg,
		})
		return
	}

	token, err := session.Issue(session.Identity{UserID: user.ID, Username: user.Name})
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to issue session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	session.Set(c, token)
	a.Audit.Record(user.ID, "Logged in")

	if user.Admin {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
