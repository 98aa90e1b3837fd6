package model

type Generation struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"index;not null" json:"-"`

	// tts or caption
	Kind string `gorm:"not null" json:"kind"`

	// Input text for TTS, original file name for captions. Truncated so a
	// 5000 character prompt doesn't bloat the history listing
	Prompt  string `json:"prompt"`
	VoiceID string `json:"voice_id,omitempty"`
	ModelID string `json:"model_id,omitempty"`

	// Key of the artifact in the transient store. The file itself may
	// already be swept away, the record stays
	FileName string `json:"fileName"`
	Status   string `gorm:"not null" json:"status"`

	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"not null" json:"generatedAt"`
}

const (
	GenerationTTS     = "tts"
	GenerationCaption = "caption"

	GenerationCompleted = "completed"
)
