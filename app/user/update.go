package user

import (
	"errors"
	"net/http"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type updateUserBody struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username"`
	Email     string  `json:"email"`

	// Admin only. A regular user can't touch their own role
	Role *string `json:"role"`
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	caller := c.MustGet("user").(*model.User)
	id := c.Param("id")

	isAdmin := caller.Role == model.RoleAdmin
	if caller.ID != id && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only update your own account",
			"requestID": requestID,
		})
		return
	}

	var data updateUserBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
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

		zap.L().Error("Failed to fetch user for update", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	updates := map[string]any{}

	if data.Email != "" && data.Email != target.Email {
		if err := validators.EmailValidator(data.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		var found bool
		r := d.DB.Model(model.User{}).
			Select("count(*) > 0").
			Where("email = ?", data.Email).
			First(&found)
		if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check email availability", zap.Error(r.Error), zap.String("requestID", requestID))
			return
		}

		if found {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Email is already in use",
				"requestID": requestID,
			})
			return
		}

		updates["email"] = data.Email
	}

	if data.FirstName != nil {
		updates["first_name"] = *data.FirstName
	}
	if data.LastName != nil {
		updates["last_name"] = *data.LastName
	}
	if data.Username != nil {
		updates["username"] = *data.Username
	}

	if data.Role != nil {
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Only admins can change roles",
				"requestID": requestID,
			})
			return
		}

		if *data.Role != model.RoleUser && *data.Role != model.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Unknown role",
				"requestID": requestID,
			})
			return
		}

		updates["role"] = *data.Role
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"user": target,
		})
		return
	}

	if err := d.DB.Model(&target).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": target,
	})
}
