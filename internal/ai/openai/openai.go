// Package openai implements ai.Model on the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/porticus-lab/bionic-api/internal/ai"
	"github.com/porticus-lab/bionic-api/internal/apperr"
	"github.com/porticus-lab/bionic-api/internal/audio"
)

// Defaults.
const (
	DefaultTextModel   = goopenai.GPT4oMini
	DefaultSpeechModel = string(goopenai.TTSModel1)
	DefaultVoice       = string(goopenai.VoiceAlloy)
)

// pcmSampleRate is the fixed rate of the "pcm" speech response format.
const pcmSampleRate = 24000

const providerName = "openai"

// Model calls OpenAI chat and speech models.
type Model struct {
	client      *goopenai.Client
	textModel   string
	speechModel string
	voice       string
}

// Option configures a Model.
type Option func(*Model, *goopenai.ClientConfig)

// WithTextModel overrides DefaultTextModel. Empty keeps the default.
func WithTextModel(name string) Option {
	return func(m *Model, _ *goopenai.ClientConfig) {
		if name != "" {
			m.textModel = name
		}
	}
}

// WithSpeechModel overrides DefaultSpeechModel. Empty keeps the default.
func WithSpeechModel(name string) Option {
	return func(m *Model, _ *goopenai.ClientConfig) {
		if name != "" {
			m.speechModel = name
		}
	}
}

// WithVoice overrides DefaultVoice. Empty keeps the default.
func WithVoice(name string) Option {
	return func(m *Model, _ *goopenai.ClientConfig) {
		if name != "" {
			m.voice = name
		}
	}
}

// WithBaseURL sets a custom API base URL (for testing or proxies).
func WithBaseURL(url string) Option {
	return func(_ *Model, cfg *goopenai.ClientConfig) {
		cfg.BaseURL = url
	}
}

// New creates an OpenAI-backed model using apiKey.
func New(apiKey string, opts ...Option) *Model {
	m := &Model{
		textModel:   DefaultTextModel,
		speechModel: DefaultSpeechModel,
		voice:       DefaultVoice,
	}
	cfg := goopenai.DefaultConfig(apiKey)
	for _, o := range opts {
		o(m, &cfg)
	}
	m.client = goopenai.NewClientWithConfig(cfg)
	return m
}

// Provider implements ai.Model.
func (m *Model) Provider() string { return providerName }

// GenerateText implements ai.Model.
func (m *Model) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: m.textModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.MalformedModelResponse, "model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateSpeech implements ai.Model. Audio is requested in the raw "pcm"
// format: 24kHz mono signed 16-bit little-endian. The speech endpoint reads
// its input word for word, so only req.Text is sent and req.Style is
// dropped.
func (m *Model) GenerateSpeech(ctx context.Context, req ai.SpeechRequest) (*ai.Speech, error) {
	resp, err := m.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(m.speechModel),
		Input:          req.Text,
		Voice:          goopenai.SpeechVoice(m.voice),
		ResponseFormat: goopenai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create speech: %w", err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai: reading speech: %w", err)
	}
	if len(pcm) == 0 {
		return nil, apperr.New(apperr.MalformedModelResponse, "model response contained no audio")
	}
	return &ai.Speech{
		PCM:    pcm,
		Format: audio.Format{SampleRate: pcmSampleRate, Channels: 1, SampleWidth: 2},
	}, nil
}

var _ ai.Model = (*Model)(nil)
