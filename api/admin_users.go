package api

import (
	"net/http"
	"strings"

	"taskman/todo-web/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminUsers lists non-admin accounts, optionally narrowed by a
// substring search over name/email and a verified/unverified filter.
// Most recently registered first.
func (a *API) AdminUsers(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	search := strings.TrimSpace(c.Query("search"))
	status := c.Query("status")

	q := a.DB.Where("admin = ?", false)

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	switch status {
	case "verified":
		q = q.Where("verified = ?", true)
	case "unverified":
		q = q.Where("verified = ?", false)
	default:
		status = ""
	}

	var users []model.User

	err := q.Order("id desc").Find(&users).Error
	if err != nil {
		internalError(c, requestID)

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Users":  users,
		"Search": search,
		"Status": status,
	})
}
