package auth

import (
	"net/http"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FreeCredits lets accounts created before the welcome grant claim it
// explicitly. A no-op with a 400 once the grant fired anywhere
func FreeCredits(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet("user").(*model.User)

	total, err := d.Ledger.GrantFreeCredits(user.ID)
	if err != nil {
		if err == ledger.ErrAlreadyGranted {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "You have already received your free credits",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to grant free credits", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Free credits added successfully!",
		"pointsAdded": model.FreeCreditAmount,
		"totalPoints": total,
	})
}
