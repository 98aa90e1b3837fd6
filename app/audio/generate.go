// Package audio contains the text-to-speech endpoints. Generation is the
// metered path: the balance gates the request, the provider call happens
// before any charge, and the point only leaves the account once an
// artifact actually exists
package audio

import (
	"net/http"
	"time"
	"unicode/utf8"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/storage"
	"akshit029/vig-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func Generate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet("user").(*model.User)

	if user.Points <= 0 {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":     "Insufficient points. Please purchase more credits.",
			"requestID": requestID,
		})
		return
	}

	var data validators.TTSRequest
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.TTSValidator(&data, viper.GetInt("tts.max_chars")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	// Operator fault, not a user problem. Refuse before anything is charged
	if viper.GetString("elevenlabs.api_key") == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "ElevenLabs API key not configured",
			"requestID": requestID,
		})
		return
	}

	audio, err := d.TTS.Synthesize(c.Request.Context(), data.Text, data.VoiceID, data.ModelID)
	if err != nil {
		// Whatever went wrong upstream, the user keeps their point
		zap.L().Warn("TTS provider call failed", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":           "TTS service temporarily unavailable. Please try again later or contact support.",
			"pointsRemaining": user.Points,
			"requestID":       requestID,
		})
		return
	}

	fileName := storage.MakeName("tts", user.ID, ".mp3")

	if err := d.Store.Save(fileName, audio); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to persist audio artifact", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	prompt := data.Text
	if len(prompt) > 200 {
		// Walk back to a rune boundary so the stored prompt stays
		// valid UTF-8
		cut := 200
		for cut > 0 && !utf8.RuneStart(prompt[cut]) {
			cut--
		}
		prompt = prompt[:cut]
	}

	record := model.Generation{
		UserID:    user.ID,
		Kind:      model.GenerationTTS,
		Prompt:    prompt,
		VoiceID:   data.VoiceID,
		ModelID:   data.ModelID,
		FileName:  fileName,
		Status:    model.GenerationCompleted,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := d.DB.Create(&record).Error; err != nil {
		zap.L().Error("Failed to save generation record", zap.Error(err), zap.String("requestID", requestID))
	}

	// The generation already happened, so a failed debit is logged as an
	// inconsistency instead of failing the request
	remaining, err := d.Ledger.Debit(user.ID)
	if err != nil {
		remaining = user.Points
		zap.L().Error("Failed to deduct point after successful generation",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Text-to-speech audio generated successfully",
		"audio": gin.H{
			"id":          record.ID,
			"text":        data.Text,
			"voice_id":    data.VoiceID,
			"model_id":    data.ModelID,
			"streamUrl":   "/api/audio/stream/" + fileName,
			"downloadUrl": "/api/audio/download/" + fileName,
			"generatedAt": record.CreatedAt,
		},
		"pointsRemaining": remaining,
	})
}
