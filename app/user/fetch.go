package user

import (
	"errors"
	"net/http"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	caller := c.MustGet("user").(*model.User)
	id := c.Param("id")

	if caller.ID != id && caller.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only view your own account",
			"requestID": requestID,
		})
		return
	}

	var target model.User
	err := d.DB.First(&target, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": target,
	})
}
