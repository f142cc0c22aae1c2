// Package gemini implements ai.Model on the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/porticus-lab/bionic-api/internal/ai"
	"github.com/porticus-lab/bionic-api/internal/apperr"
	"github.com/porticus-lab/bionic-api/internal/audio"
)

// Default models.
const (
	DefaultTextModel   = "gemini-2.5-flash-preview-09-2025"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
)

const providerName = "gemini"

// Model calls Gemini text and speech models.
type Model struct {
	client      *genai.Client
	textModel   string
	speechModel string
	voice       string
	baseURL     string
}

// Option configures a Model.
type Option func(*Model)

// WithTextModel overrides DefaultTextModel. Empty keeps the default.
func WithTextModel(name string) Option {
	return func(m *Model) {
		if name != "" {
			m.textModel = name
		}
	}
}

// WithSpeechModel overrides DefaultSpeechModel. Empty keeps the default.
func WithSpeechModel(name string) Option {
	return func(m *Model) {
		if name != "" {
			m.speechModel = name
		}
	}
}

// WithVoice selects a prebuilt voice, e.g. "Kore". Empty lets the model
// choose.
func WithVoice(name string) Option {
	return func(m *Model) {
		m.voice = name
	}
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(url string) Option {
	return func(m *Model) {
		m.baseURL = url
	}
}

// New creates a Gemini-backed model using apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Model, error) {
	m := &Model{textModel: DefaultTextModel, speechModel: DefaultSpeechModel}
	for _, o := range opts {
		o(m)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if m.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: m.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	m.client = client
	return m, nil
}

// Provider implements ai.Model.
func (m *Model) Provider() string { return providerName }

// GenerateText implements ai.Model.
func (m *Model) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return responseText(resp)
}

// GenerateSpeech implements ai.Model. The style and text are sent as one
// prompt, the model is asked for audio only and the PCM of the first
// response part is returned.
func (m *Model) GenerateSpeech(ctx context.Context, req ai.SpeechRequest) (*ai.Speech, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if m.voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: m.voice},
			},
		}
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.speechModel, genai.Text(req.Prompt()), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate speech: %w", err)
	}
	return responseSpeech(resp)
}

func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content.Parts
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	parts := firstParts(resp)
	if len(parts) == 0 {
		return "", apperr.New(apperr.MalformedModelResponse, "model returned no content")
	}
	var sb strings.Builder
	for _, p := range parts {
		if p != nil && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

func responseSpeech(resp *genai.GenerateContentResponse) (*ai.Speech, error) {
	parts := firstParts(resp)
	if len(parts) == 0 || parts[0] == nil || parts[0].InlineData == nil || len(parts[0].InlineData.Data) == 0 {
		return nil, apperr.New(apperr.MalformedModelResponse, "model response contained no audio")
	}
	blob := parts[0].InlineData
	return &ai.Speech{
		PCM:    blob.Data,
		Format: audio.Format{SampleRate: sampleRate(blob.MIMEType)},
	}, nil
}

// sampleRate reads the rate parameter of a PCM MIME type such as
// "audio/L16;codec=pcm;rate=24000". Zero means unknown.
func sampleRate(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return 0
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return 0
	}
	return rate
}
