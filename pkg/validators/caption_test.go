package validators

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func videoHeader(size int64, contentType string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "clip.mp4",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestCaptionValidator(t *testing.T) {
	t.Run("nil file rejected", func(t *testing.T) {
		err := CaptionValidator(nil, &CaptionOptions{}, 1<<20)
		assert.ErrorIs(t, err, ErrNoVideo)
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		err := CaptionValidator(videoHeader(2<<20, "video/mp4"), &CaptionOptions{}, 1<<20)
		assert.ErrorIs(t, err, ErrVideoTooBig)
	})

	t.Run("non-video mimetype rejected", func(t *testing.T) {
		err := CaptionValidator(videoHeader(100, "image/png"), &CaptionOptions{}, 1<<20)
		assert.ErrorIs(t, err, ErrNotVideo)
	})

	t.Run("defaults applied", func(t *testing.T) {
		o := &CaptionOptions{}
		err := CaptionValidator(videoHeader(100, "video/mp4"), o, 1<<20)
		assert.NoError(t, err)

		assert.Equal(t, "hi", o.Language)
		assert.Equal(t, 24, o.FontSize)
		assert.Equal(t, "Arial", o.FontFamily)
		assert.Equal(t, "#FFFFFF", o.FontColor)
		assert.Equal(t, "rgba(0,0,0,0.7)", o.BackgroundColor)
		assert.Equal(t, "bottom", o.Position)
		assert.Equal(t, 8, o.MaxWordsPerLine)
	})

	t.Run("explicit options kept", func(t *testing.T) {
		o := &CaptionOptions{Language: "en", FontSize: 32, Position: "top", MaxWordsPerLine: 5}
		err := CaptionValidator(videoHeader(100, "video/mp4"), o, 1<<20)
		assert.NoError(t, err)

		assert.Equal(t, "en", o.Language)
		assert.Equal(t, 32, o.FontSize)
		assert.Equal(t, "top", o.Position)
		assert.Equal(t, 5, o.MaxWordsPerLine)
	})

	t.Run("unknown position rejected", func(t *testing.T) {
		o := &CaptionOptions{Position: "left"}
		err := CaptionValidator(videoHeader(100, "video/mp4"), o, 1<<20)
		assert.ErrorIs(t, err, ErrBadPosition)
	})

	t.Run("word count bounds", func(t *testing.T) {
		o := &CaptionOptions{MaxWordsPerLine: 21}
		err := CaptionValidator(videoHeader(100, "video/mp4"), o, 1<<20)
		assert.ErrorIs(t, err, ErrBadWordCount)
	})
}
