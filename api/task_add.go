package api

import (
	"net/http"
	"strings"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskAdd creates a task for the session user. An empty task text is a
// silent no-op redirect rather than an error, matching the form's
// client-side required marker.
func (a *API) TaskAdd(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	text := strings.TrimSpace(c.PostForm("task"))
	if text == "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	err := a.DB.Create(&model.Task{
		UserID: userID,
		Text:   text,
	}).Error
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to create task", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.Audit.Record(userID, "Added task")

	c.Redirect(http.StatusFound, "/dashboard")
}
