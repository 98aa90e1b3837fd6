package payment

import (
	"errors"
	"net/http"
	"strconv"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/payments"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// StripeWebhook is the server-side confirmation path. It runs without
// auth, so every claim in the payload is either covered by the
// signature check or re-verified against Stripe before crediting
func StripeWebhook(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Failed to read request body",
			"requestID": requestID,
		})
		return
	}

	sess, err := payments.ParseWebhook(payload, c.GetHeader("Stripe-Signature"), viper.GetString("stripe.webhook_secret"))
	if err != nil {
		if errors.Is(err, payments.ErrBadSignature) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid webhook signature",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed webhook payload",
			"requestID": requestID,
		})
		return
	}

	// Events other than completed checkouts are acknowledged so
	// Stripe stops retrying them
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// The event payload may be stale. Confirm payment state against
	// the live session
	live, err := d.Checkout.GetSession(c.Request.Context(), sess.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to verify checkout session",
			"requestID": requestID,
		})

		zap.L().Error("Webhook session verification error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !live.Paid {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	userID := live.Metadata["userId"]
	points, perr := strconv.Atoi(live.Metadata["points"])
	if userID == "" || perr != nil || points <= 0 {
		zap.L().Warn("Paid session without usable metadata",
			zap.String("sessionID", live.ID),
			zap.String("requestID", requestID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	applied, _, err := d.Ledger.ApplySession(ledger.SessionInfo{
		SessionID: live.ID,
		UserID:    userID,
		Points:    points,
		Amount:    live.AmountTotal,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to apply credits",
			"requestID": requestID,
		})

		zap.L().Error("Webhook ledger apply error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if applied {
		zap.L().Info("Credited checkout session via webhook",
			zap.String("sessionID", live.ID),
			zap.String("userID", userID),
			zap.Int("points", points))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
