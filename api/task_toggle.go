package api

import (
	"net/http"
	"strconv"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskToggle sets the completed flag of an owned task. The posted value
// must parse as a bool, anything else is ignored instead of being
// written to the column.
func (a *API) TaskToggle(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	taskID, err := strconv.ParseUint(c.PostForm("task_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	completed, err := strconv.ParseBool(c.PostForm("completed"))
	if err != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	r := a.DB.
		Model(model.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Update("completed", completed)
	if r.Error != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to toggle task", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected > 0 {
		action := "Marked task as incomplete"
		if completed {
			action = "Marked task as complete"
		}

		a.Audit.Record(userID, action)
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
