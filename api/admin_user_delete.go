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

// AdminUserDelete removes a non-admin account together with their tasks
// in one transaction. Audit entries are kept, the trail outliving the
// account is the point of having one.
func (a *API) AdminUserDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "User not found")
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		// The panel only lists non-admin accounts, the predicate keeps a
		// forged form post from deleting an admin
		var target model.User

		err := tx.Where("id = ? AND admin = ?", userID, false).First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}

			return err
		}

		// Tasks reference the user row, so they have to go first
		if err := tx.Where("user_id = ?", target.ID).Delete(&model.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, target.ID).Error
	})
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to delete user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}
