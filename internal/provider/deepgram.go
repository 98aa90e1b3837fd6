package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const deepgramURL = "https://api.deepgram.com/v1"

// Transcriber produces a word-level transcript from raw media bytes
type Transcriber interface {
	Transcribe(ctx context.Context, media []byte, contentType, language string) (*Transcript, error)
}

type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type Sentence struct {
	Text string `json:"text"`
}

type Paragraph struct {
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
	Sentences []Sentence `json:"sentences"`
}

type Transcript struct {
	Text             string
	Confidence       float64
	Words            []Word
	Paragraphs       []Paragraph
	DetectedLanguage string
}

type Deepgram struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewDeepgram(apiKey string) *Deepgram {
	return &Deepgram{
		APIKey:  apiKey,
		BaseURL: deepgramURL,
		// Transcribing a large upload takes a while
		Client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// deepgramResponse only maps the parts of the prerecorded response we
// actually read
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
				Words      []Word  `json:"words"`
				Paragraphs struct {
					Paragraphs []Paragraph `json:"paragraphs"`
				} `json:"paragraphs"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *Deepgram) Transcribe(ctx context.Context, media []byte, contentType, language string) (*Transcript, error) {
	q := url.Values{}
	q.Set("model", "nova-2")
	q.Set("language", language)
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	q.Set("paragraphs", "true")
	q.Set("utterances", "true")
	q.Set("diarize", "true")
	q.Set("detect_language", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+"/listen?"+q.Encode(), bytes.NewReader(media))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Token "+d.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusToErr(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var data deepgramResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	if len(data.Results.Channels) == 0 || len(data.Results.Channels[0].Alternatives) == 0 {
		return nil, fmt.Errorf("%w: empty transcription result", ErrUnavailable)
	}

	ch := data.Results.Channels[0]
	alt := ch.Alternatives[0]

	detected := ch.DetectedLanguage
	if detected == "" {
		detected = language
	}

	return &Transcript{
		Text:             alt.Transcript,
		Confidence:       alt.Confidence,
		Words:            alt.Words,
		Paragraphs:       alt.Paragraphs.Paragraphs,
		DetectedLanguage: detected,
	}, nil
}
