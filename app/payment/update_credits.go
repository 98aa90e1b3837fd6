package payment

import (
	"errors"
	"net/http"
	"strconv"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/payments"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateCreditsBody struct {
	SessionID string `json:"sessionId"`
}

// UpdateCredits is the client-side confirmation path. The frontend calls
// it after Stripe redirects back with a session_id. The session is
// re-fetched from Stripe before any crediting happens, so a forged or
// unpaid session ID never mints points
func UpdateCredits(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet("user").(*model.User)

	var data updateCreditsBody
	if err := c.ShouldBind(&data); err != nil || data.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Session ID is required",
			"requestID": requestID,
		})
		return
	}

	sess, err := d.Checkout.GetSession(c.Request.Context(), data.SessionID)
	if err != nil {
		if errors.Is(err, payments.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Checkout session not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to retrieve checkout session",
			"requestID": requestID,
		})

		zap.L().Error("Stripe session lookup error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !sess.Paid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Payment has not been completed",
			"requestID": requestID,
		})
		return
	}

	if sess.Metadata["userId"] != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Session does not belong to this user",
			"requestID": requestID,
		})
		return
	}

	points, err := strconv.Atoi(sess.Metadata["points"])
	if err != nil || points <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Session has no point amount attached",
			"requestID": requestID,
		})
		return
	}

	applied, total, err := d.Ledger.ApplySession(ledger.SessionInfo{
		SessionID: sess.ID,
		UserID:    user.ID,
		Points:    points,
		Amount:    sess.AmountTotal,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to apply credits",
			"requestID": requestID,
		})

		zap.L().Error("Ledger apply error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	pointsAdded := 0
	if applied {
		pointsAdded = points
	}

	c.JSON(http.StatusOK, gin.H{
		"pointsAdded": pointsAdded,
		"totalPoints": total,
	})
}
