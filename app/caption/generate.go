// Package caption contains the video transcription endpoints. Like the
// audio package these are metered: validation and the provider call come
// first, the point only moves after a usable result exists
package caption

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/provider"
	"akshit029/vig-api/internal/service"
	"akshit029/vig-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// readUpload validates the multipart video and pulls it into memory
// together with the normalized options
func readUpload(c *gin.Context) (data []byte, header *multipart.FileHeader, opts *validators.CaptionOptions, err error) {
	header, _ = c.FormFile("video")

	opts = &validators.CaptionOptions{}
	if bindErr := c.ShouldBind(opts); bindErr != nil {
		return nil, nil, nil, bindErr
	}

	if err = validators.CaptionValidator(header, opts, viper.GetInt64("upload.max_size")); err != nil {
		return nil, nil, nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, nil, nil, err
	}

	return data, header, opts, nil
}

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

	video, header, opts, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if viper.GetString("deepgram.api_key") == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Deepgram API key not configured",
			"requestID": requestID,
		})
		return
	}

	transcript, err := d.STT.Transcribe(c.Request.Context(), video, header.Header.Get("Content-Type"), opts.Language)
	if err != nil {
		zap.L().Warn("Transcription provider call failed", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":           "Transcription service temporarily unavailable. Please try again later.",
			"pointsRemaining": user.Points,
			"requestID":       requestID,
		})
		return
	}

	captions := service.CaptionsFromTranscript(transcript)

	record := model.Generation{
		UserID:    user.ID,
		Kind:      model.GenerationCaption,
		Prompt:    header.Filename,
		Status:    model.GenerationCompleted,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := d.DB.Create(&record).Error; err != nil {
		zap.L().Error("Failed to save generation record", zap.Error(err), zap.String("requestID", requestID))
	}

	remaining, err := d.Ledger.Debit(user.ID)
	if err != nil {
		remaining = user.Points
		zap.L().Error("Failed to deduct point after successful transcription",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Captions generated successfully",
		"data": gin.H{
			"transcript": transcript.Text,
			"captions":   captions,
			"options":    opts,
			"metadata": gin.H{
				"confidence":       transcript.Confidence,
				"language":         opts.Language,
				"detectedLanguage": transcript.DetectedLanguage,
			},
		},
		"pointsRemaining": remaining,
	})
}

// emptyTranscript reports whether the provider heard nothing usable
func emptyTranscript(t *provider.Transcript) bool {
	return t.Text == "" || len(t.Words) == 0
}
