package validators

import (
	"errors"
	"mime/multipart"
	"slices"
	"strings"
)

var (
	ErrNoVideo      = errors.New("no video file uploaded")
	ErrVideoTooBig  = errors.New("video file exceeds the size limit")
	ErrNotVideo     = errors.New("only video files are allowed")
	ErrBadPosition  = errors.New("invalid caption position provided")
	ErrBadWordCount = errors.New("maxWordsPerLine must be between 1 and 20")
)

var validPositions = []string{"top", "center", "bottom"}

type CaptionOptions struct {
	Language        string `form:"language"`
	FontSize        int    `form:"fontSize"`
	FontFamily      string `form:"fontFamily"`
	FontColor       string `form:"fontColor"`
	BackgroundColor string `form:"backgroundColor"`
	Position        string `form:"position"`
	MaxWordsPerLine int    `form:"maxWordsPerLine"`
}

// CaptionValidator checks the uploaded video and normalizes the styling
// options to their defaults
func CaptionValidator(f *multipart.FileHeader, o *CaptionOptions, maxSize int64) error {
	if f == nil {
		return ErrNoVideo
	}

	if f.Size > maxSize {
		return ErrVideoTooBig
	}

	if !strings.HasPrefix(f.Header.Get("Content-Type"), "video/") {
		return ErrNotVideo
	}

	if o.Language == "" {
		o.Language = "hi"
	}
	if o.FontSize <= 0 {
		o.FontSize = 24
	}
	if o.FontFamily == "" {
		o.FontFamily = "Arial"
	}
	if o.FontColor == "" {
		o.FontColor = "#FFFFFF"
	}
	if o.BackgroundColor == "" {
		o.BackgroundColor = "rgba(0,0,0,0.7)"
	}
	if o.Position == "" {
		o.Position = "bottom"
	}
	if o.MaxWordsPerLine == 0 {
		o.MaxWordsPerLine = 8
	}

	if !slices.Contains(validPositions, o.Position) {
		return ErrBadPosition
	}

	if o.MaxWordsPerLine < 1 || o.MaxWordsPerLine > 20 {
		return ErrBadWordCount
	}

	return nil
}
