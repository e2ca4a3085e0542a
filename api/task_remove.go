package api

import (
	"fmt"
	"net/http"
	"strconv"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskRemove deletes a task by id, constrained to the session user. A
// task id belonging to someone else matches zero rows and the request
// ends in the same redirect, revealing nothing about foreign tasks.
func (a *API) TaskRemove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	taskID, err := strconv.ParseUint(c.PostForm("task_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	r := a.DB.
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Task{})
	if r.Error != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to delete task", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected > 0 {
		a.Audit.Record(userID, fmt.Sprintf("Removed task ID %d", taskID))
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
