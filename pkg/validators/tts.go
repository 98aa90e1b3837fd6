package validators

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrTextEmpty = errors.New("text is required for text-to-speech generation")

const (
	DefaultVoiceID = "pNInz6obpgDQGcFmaJgB"
	DefaultModelID = "eleven_monolingual_v1"
)

type TTSRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id"`
}

// TTSValidator checks the text payload and fills in the default voice and
// model. maxChars comes from config, 5000 unless overridden
func TTSValidator(r *TTSRequest, maxChars int) error {
	if r.Text == "" {
		return ErrTextEmpty
	}

	// The limit is characters, not bytes. Multibyte scripts like
	// Devanagari would otherwise hit it at a third of the length
	if utf8.RuneCountInString(r.Text) > maxChars {
		return fmt.Errorf("text must be less than %d characters", maxChars)
	}

	if r.VoiceID == "" {
		r.VoiceID = DefaultVoiceID
	}

	if r.ModelID == "" {
		r.ModelID = DefaultModelID
	}

	return nil
}
