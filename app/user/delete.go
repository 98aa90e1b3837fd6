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

func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var target model.User
		if err := tx.First(&target, "id = ?", id).Error; err != nil {
			return err
		}

		// Payment sessions are kept for bookkeeping, everything else
		// tied to the account goes with it
		if err := tx.Where("user_id = ?", id).Delete(&model.Generation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PasswordReset{}).Error; err != nil {
			return err
		}

		return tx.Delete(&target).Error
	})
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

		zap.L().Error("Failed to delete user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
