package audio

import (
	"net/http"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// fallbackVoices keep the voice picker working when the provider is
// unreachable or no key is configured
var fallbackVoices = []provider.Voice{
	{VoiceID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Category: "premade", Description: "Deep, mature male voice"},
	{VoiceID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Category: "premade", Description: "Young, energetic female voice"},
	{VoiceID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Category: "premade", Description: "Confident, strong female voice"},
	{VoiceID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Category: "premade", Description: "Soft, gentle female voice"},
	{VoiceID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Category: "premade", Description: "Well-rounded, versatile male voice"},
}

func Voices(c *gin.Context, d *internal.Deps) {
	if viper.GetString("elevenlabs.api_key") == "" {
		c.JSON(http.StatusOK, gin.H{
			"message": "Voices retrieved successfully (fallback)",
			"voices":  fallbackVoices,
		})
		return
	}

	voices, err := d.TTS.Voices(c.Request.Context())
	if err != nil {
		zap.L().Warn("Failed to list provider voices, using fallback", zap.Error(err))

		c.JSON(http.StatusOK, gin.H{
			"message": "Voices retrieved successfully (fallback)",
			"voices":  fallbackVoices,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voices retrieved successfully",
		"voices":  voices,
	})
}
