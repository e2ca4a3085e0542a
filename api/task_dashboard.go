package api

import (
	"net/http"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) Dashboard(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)
	username := c.MustGet("username").(string)

	filter := c.DefaultQuery("filter", "all")

	q := a.DB.Where("user_id = ?", userID)

	switch filter {
	case "completed":
		q = q.Where("completed = ?", true)
	case "pending":
		q = q.Where("completed = ?", false)
	default:
		// Unrecognized filter values fall back to showing everything
		filter = "all"
	}

	var tasks []model.Task

	err := q.Order("id").Find(&tasks).Error
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to list tasks", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":   username,
		"Tasks":  tasks,
		"Filter": filter,
	})
}
