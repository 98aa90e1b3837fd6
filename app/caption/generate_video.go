package caption

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/service"
	"akshit029/vig-api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// GenerateVideo transcribes the upload, renders the transcript as SRT
// lines of maxWordsPerLine words and burns them into the video, which is
// returned directly as the response body. Costs one point like the plain
// transcription endpoint
func GenerateVideo(c *gin.Context, d *internal.Deps) {
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

	if emptyTranscript(transcript) {
		c.JSON(http.StatusOK, gin.H{
			"message": "No speech detected in video",
			"data": gin.H{
				"transcript": "No speech detected",
				"captions":   []service.Caption{},
			},
		})
		return
	}

	tempDir := viper.GetString("storage.temp_dir")
	stamp := time.Now().UnixNano()

	inputPath := filepath.Join(tempDir, fmt.Sprintf("input_%d.mp4", stamp))
	subtitlePath := filepath.Join(tempDir, fmt.Sprintf("subtitles_%d.srt", stamp))
	outputPath := filepath.Join(tempDir, fmt.Sprintf("output_%d.mp4", stamp))

	defer func() {
		for _, p := range []string{inputPath, subtitlePath, outputPath} {
			os.Remove(p)
		}
	}()

	if err := os.WriteFile(inputPath, video, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to write input video", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	srt := service.BuildSRT(transcript.Words, opts.MaxWordsPerLine)
	if err := os.WriteFile(subtitlePath, []byte(srt), 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to write subtitle file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	job := &service.BurnJob{
		ID:           util.RandStr(5),
		UserID:       user.ID,
		InputPath:    inputPath,
		SubtitlePath: subtitlePath,
		OutputPath:   outputPath,
		ForceStyle:   service.ForceStyle(opts),
		Ctx:          c.Request.Context(),
		Done:         make(chan error, 1),
	}

	if err := d.BurnQueue.Enqueue(job); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Server is busy. Please try again in a moment",
			"requestID": requestID,
		})
		return
	}

	if err := <-job.Done; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":           "Error generating video with captions",
			"pointsRemaining": user.Points,
			"requestID":       requestID,
		})
		return
	}

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

	if _, err := d.Ledger.Debit(user.ID); err != nil {
		zap.L().Error("Failed to deduct point after successful burn-in",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.String("requestID", requestID))
	}

	c.Header("Content-Disposition", `attachment; filename="video_with_captions.mp4"`)
	c.File(outputPath)
}
