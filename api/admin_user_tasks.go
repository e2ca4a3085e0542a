package api

import (
	"errors"
	"net/http"
	"strconv"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminUserTasks shows a user's task list to an admin. A deleted or
// never-existing user is a plain 404.
func (a *API) AdminUserTasks(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "User not found")
		return
	}

	var user model.User

	err = a.DB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, "User not found")
			return
		}

		internalError(c, requestID)

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var tasks []model.Task

	err = a.DB.Where("user_id = ?", user.ID).Order("id").Find(&tasks).Error
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to list user tasks", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.HTML(http.StatusOK, "admin_tasks.html", gin.H{
		"Name":  user.Name,
		"Tasks": tasks,
	})
}
