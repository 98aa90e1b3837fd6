package audio

import (
	"net/http"
	"strconv"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// History lists the caller's generation records, newest first
func History(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64

	err = d.DB.Model(model.Generation{}).
		Where("user_id = ? AND kind = ?", userID, model.GenerationTTS).
		Count(&total).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count generation records", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var records []model.Generation

	err = d.DB.
		Where("user_id = ? AND kind = ?", userID, model.GenerationTTS).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&records).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch generation records", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	pages := (total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Audio history retrieved successfully",
		"audioHistory": records,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}
