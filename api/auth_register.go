package api

import (
	"errors"
	"net/http"
	"strings"

	"taskman/todo-web/model"
	"taskman/todo-web/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (a *API) Register(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if err := validateRegistration(username, email, password); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Message": err.Error(),
		})
		return
	}

	hash, err := a.Argon.GenerateFromPassword(password)
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The unique index on name is the source of truth for duplicates. A
	// pre-check would race against concurrent registrations.
	err = a.DB.Create(&model.User{
		Name:         username,
		Email:        email,
		PasswordHash: hash,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.HTML(http.StatusConflict, "register.html", gin.H{
				"Message": "Username already exists.",
			})
			return
		}

		internalError(c, requestID)

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func validateRegistration(username, email, password string) error {
	if err := validators.UsernameValidator(username); err != nil {
		return err
	}

	if err := validators.EmailValidator(email); err != nil {
		return err
	}

	return validators.PasswordValidator(password)
}
