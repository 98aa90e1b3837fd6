package service

import (
	"fmt"
	"strings"

	"akshit029/vig-api/internal/provider"
	"akshit029/vig-api/pkg/util"
	"akshit029/vig-api/pkg/validators"
)

// Caption is one subtitle line with its display window
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// CaptionsFromTranscript prefers paragraph-level windows and falls back to
// a single caption spanning the whole transcript when the provider didn't
// return any paragraphs
func CaptionsFromTranscript(t *provider.Transcript) []Caption {
	captions := make([]Caption, 0, len(t.Paragraphs))

	for _, p := range t.Paragraphs {
		parts := make([]string, 0, len(p.Sentences))
		for _, s := range p.Sentences {
			parts = append(parts, s.Text)
		}

		captions = append(captions, Caption{
			Start: p.Start,
			End:   p.End,
			Text:  strings.Join(parts, " "),
		})
	}

	if len(captions) == 0 && t.Text != "" {
		var end float64
		if len(t.Words) > 0 {
			end = t.Words[len(t.Words)-1].End
		}

		captions = append(captions, Caption{Start: 0, End: end, Text: t.Text})
	}

	return captions
}

// BuildSRT groups word-level timestamps into lines of at most
// maxWordsPerLine words and renders them as an SRT document
func BuildSRT(words []provider.Word, maxWordsPerLine int) string {
	var b strings.Builder

	index := 1
	for i := 0; i < len(words); i += maxWordsPerLine {
		group := words[i:min(i+maxWordsPerLine, len(words))]

		parts := make([]string, 0, len(group))
		for _, w := range group {
			parts = append(parts, w.Word)
		}

		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			index,
			util.SRTTimestamp(group[0].Start),
			util.SRTTimestamp(group[len(group)-1].End),
			strings.Join(parts, " "))
		index++
	}

	return b.String()
}

// ForceStyle renders the caption options as a libass force_style string.
// Alignment uses the numpad layout: 2 bottom, 5 middle, 8 top
func ForceStyle(o *validators.CaptionOptions) string {
	alignment := 2
	switch o.Position {
	case "top":
		alignment = 8
	case "center":
		alignment = 5
	}

	return fmt.Sprintf("FontName=%s,FontSize=%d,PrimaryColour=%s,BackColour=%s,Alignment=%d",
		o.FontFamily, o.FontSize, util.ASSColor(o.FontColor), util.ASSColor(o.BackgroundColor), alignment)
}
