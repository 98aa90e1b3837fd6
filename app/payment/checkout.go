// Package payment contains the credit purchase flow: hosted checkout
// creation plus the two independent confirmation paths (client callback
// and Stripe webhook), both funneled through the idempotent ledger so a
// paid session is credited exactly once
package payment

import (
	"net/http"
	"time"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type checkoutBody struct {
	Points int `json:"points"`
}

func CreateCheckoutSession(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet("user").(*model.User)

	var data checkoutBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	amount, err := validators.PointPackValidator(data.Points)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if viper.GetString("stripe.secret_key") == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Stripe is not configured",
			"requestID": requestID,
		})
		return
	}

	sess, err := d.Checkout.CreateSession(c.Request.Context(), user.ID, data.Points, amount, viper.GetString("host.frontend_url"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to create checkout session",
			"requestID": requestID,
		})

		zap.L().Error("Stripe checkout session error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Recorded as pending so the history endpoint sees abandoned
	// checkouts too. Crediting doesn't depend on this row existing
	err = d.DB.Create(&model.PaymentSession{
		SessionID: sess.ID,
		UserID:    user.ID,
		Points:    data.Points,
		Amount:    amount,
		Status:    model.SessionPending,
		CreatedAt: time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("Failed to record pending payment session", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"url": sess.URL,
	})
}
