package auth

import (
	"net/http"
	"time"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/service"
	"akshit029/vig-api/pkg/security"
	"akshit029/vig-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type forgotPasswordBody struct {
	Email string `json:"email"`
}

// ForgotPassword always answers the same way so the endpoint can't be
// used to probe which emails have accounts
func ForgotPassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data forgotPasswordBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required",
			"requestID": requestID,
		})
		return
	}

	opaque := gin.H{
		"message": "If an account with that email exists, a password reset link has been sent.",
	}

	var user model.User

	if err := d.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, opaque)
		return
	}

	reset, err := security.MakeResetToken(user.ID, time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.DB.Create(reset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to persist reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := service.SendResetMail(user.Email, reset.Token); err != nil {
		zap.L().Warn("Failed to send password reset email", zap.Error(err), zap.String("userID", user.ID))
	}

	c.JSON(http.StatusOK, opaque)
}

type resetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func ResetPassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resetPasswordBody
	if err := c.ShouldBind(&data); err != nil || data.Token == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Token and password are required",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var reset model.PasswordReset

	err := d.DB.
		Where("token = ? AND used = ? AND expires_at > ?", data.Token, false, time.Now()).
		First(&reset).
		Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid or expired reset token",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(model.User{}).
			Where("id = ?", reset.UserID).
			UpdateColumn("password_hash", hash).
			Error; err != nil {
			return err
		}

		return tx.Model(&reset).
			UpdateColumn("used", true).
			Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reset password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset successfully",
	})
}
