package payment

import (
	"net/http"
	"strconv"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type historyEntry struct {
	SessionID string `json:"sessionId"`
	Points    int    `json:"points"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
}

// PaymentHistory merges the local session table with the sessions Stripe
// knows about, so purchases made before a session row existed locally
// still show up
func PaymentHistory(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var sessions []model.PaymentSession
	err := d.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&sessions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to load payment history",
			"requestID": requestID,
		})

		zap.L().Error("Payment history query error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := make([]historyEntry, 0, len(sessions))
	seen := make(map[string]bool, len(sessions))

	for _, s := range sessions {
		seen[s.SessionID] = true
		out = append(out, historyEntry{
			SessionID: s.SessionID,
			Points:    s.Points,
			Amount:    s.Amount,
			Status:    s.Status,
			CreatedAt: s.CreatedAt.UnixMilli(),
		})
	}

	// Best effort, a Stripe outage must not hide the local rows
	remote, err := d.Checkout.ListUserSessions(c.Request.Context(), userID)
	if err != nil {
		zap.L().Warn("Failed to list remote checkout sessions", zap.Error(err), zap.String("requestID", requestID))
	}

	for _, s := range remote {
		if seen[s.ID] {
			continue
		}

		points, _ := strconv.Atoi(s.Metadata["points"])

		status := model.SessionPending
		if s.Paid {
			status = model.SessionCredited
		}

		out = append(out, historyEntry{
			SessionID: s.ID,
			Points:    points,
			Amount:    s.AmountTotal,
			Status:    status,
			CreatedAt: s.Created * 1000,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": out,
	})
}
