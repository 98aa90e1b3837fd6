package service

import (
	"strings"
	"testing"

	"akshit029/vig-api/internal/provider"
	"akshit029/vig-api/pkg/validators"

	"github.com/stretchr/testify/assert"
)

func TestBuildSRT(t *testing.T) {
	words := []provider.Word{
		{Word: "hello", Start: 0, End: 0.4},
		{Word: "world", Start: 0.5, End: 0.9},
		{Word: "this", Start: 1.0, End: 1.2},
		{Word: "is", Start: 1.3, End: 1.4},
		{Word: "a", Start: 1.5, End: 1.6},
		{Word: "test", Start: 1.7, End: 2.1},
	}

	srt := BuildSRT(words, 4)

	want := "1\n00:00:00,000 --> 00:00:01,400\nhello world this is\n\n" +
		"2\n00:00:01,500 --> 00:00:02,100\na test\n\n"
	assert.Equal(t, want, srt)
}

func TestBuildSRTSingleGroup(t *testing.T) {
	words := []provider.Word{
		{Word: "only", Start: 0, End: 0.3},
		{Word: "line", Start: 0.4, End: 0.8},
	}

	srt := BuildSRT(words, 8)

	assert.True(t, strings.HasPrefix(srt, "1\n"))
	assert.Equal(t, 1, strings.Count(srt, "-->"))
	assert.Contains(t, srt, "only line")
}

func TestBuildSRTEmpty(t *testing.T) {
	assert.Equal(t, "", BuildSRT(nil, 8))
}

func TestCaptionsFromTranscript(t *testing.T) {
	t.Run("paragraph windows preferred", func(t *testing.T) {
		tr := &provider.Transcript{
			Text: "first part. second part.",
			Paragraphs: []provider.Paragraph{
				{
					Start: 0, End: 2,
					Sentences: []provider.Sentence{{Text: "first part."}},
				},
				{
					Start: 2, End: 4,
					Sentences: []provider.Sentence{{Text: "second part."}},
				},
			},
		}

		captions := CaptionsFromTranscript(tr)
		assert.Len(t, captions, 2)
		assert.Equal(t, "first part.", captions[0].Text)
		assert.Equal(t, 2.0, captions[1].Start)
	})

	t.Run("fallback to one caption", func(t *testing.T) {
		tr := &provider.Transcript{
			Text: "no paragraphs here",
			Words: []provider.Word{
				{Word: "no", Start: 0, End: 0.2},
				{Word: "paragraphs", Start: 0.3, End: 0.9},
				{Word: "here", Start: 1.0, End: 1.4},
			},
		}

		captions := CaptionsFromTranscript(tr)
		assert.Len(t, captions, 1)
		assert.Equal(t, "no paragraphs here", captions[0].Text)
		assert.Equal(t, 1.4, captions[0].End)
	})

	t.Run("empty transcript yields nothing", func(t *testing.T) {
		assert.Empty(t, CaptionsFromTranscript(&provider.Transcript{}))
	})
}

func TestForceStyle(t *testing.T) {
	o := &validators.CaptionOptions{
		FontFamily:      "Arial",
		FontSize:        24,
		FontColor:       "#FFFFFF",
		BackgroundColor: "rgba(0,0,0,0.7)",
		Position:        "bottom",
	}

	assert.Equal(t,
		"FontName=Arial,FontSize=24,PrimaryColour=&H00FFFFFF,BackColour=&H80000000,Alignment=2",
		ForceStyle(o))

	o.Position = "top"
	assert.Contains(t, ForceStyle(o), "Alignment=8")

	o.Position = "center"
	assert.Contains(t, ForceStyle(o), "Alignment=5")
}
