// Package ai builds prompts for the reader's AI features, calls a
// generative model and post-processes its output.
//
// The model itself is behind the [Model] interface; internal/ai/gemini and
// internal/ai/openai provide implementations. A [Gateway] built without a
// model answers every call with an [apperr.ServiceUnavailable] error, which
// is how a missing credential surfaces to callers.
package ai

import (
	"context"
	"strings"
	"time"

	"github.com/porticus-lab/bionic-api/internal/apperr"
	"github.com/porticus-lab/bionic-api/internal/audio"
	"github.com/porticus-lab/bionic-api/internal/logger"
	"github.com/porticus-lab/bionic-api/internal/metrics"
)

// Operation names, used in logs and metrics.
const (
	OpSummarize = "summarize"
	OpChat      = "chat"
	OpSpeech    = "speech"
	OpDiagram   = "diagram"
)

// Speech is raw audio returned by a model.
type Speech struct {
	// PCM holds signed 16-bit little-endian samples.
	PCM    []byte
	Format audio.Format
}

// SpeechRequest is text to narrate and the delivery asked of the narrator.
type SpeechRequest struct {
	// Text is read aloud verbatim.
	Text string
	// Style describes the delivery, e.g. NarrationStyle. Backends that take
	// only the words to speak ignore it.
	Style string
}

// Prompt joins Style and Text into a single instruction for models that
// are steered by prompt.
func (r SpeechRequest) Prompt() string {
	if r.Style == "" {
		return r.Text
	}
	return r.Style + ": " + r.Text
}

// Model is a generative model backend.
type Model interface {
	// Provider names the backend, e.g. "gemini".
	Provider() string
	// GenerateText returns the text response to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateSpeech returns spoken audio for req. A response without an
	// audio payload is an apperr.MalformedModelResponse error.
	GenerateSpeech(ctx context.Context, req SpeechRequest) (*Speech, error)
}

// Gateway runs the reader's AI operations against a Model.
// It is safe for concurrent use.
type Gateway struct {
	model   Model
	label   string
	timeout time.Duration
	metrics *metrics.Metrics
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithProviderLabel sets the provider name used in the missing-credential
// message. Defaults to "Google AI".
func WithProviderLabel(label string) Option {
	return func(g *Gateway) {
		g.label = label
	}
}

// WithTimeout bounds every model call. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithMetrics records model calls in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// NewGateway returns a Gateway over model. A nil model yields a Gateway
// whose operations all fail with apperr.ServiceUnavailable.
func NewGateway(model Model, opts ...Option) *Gateway {
	g := &Gateway{model: model, label: "Google AI"}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Available reports whether a model is configured.
func (g *Gateway) Available() bool {
	return g.model != nil
}

func (g *Gateway) ready() error {
	if g.model == nil {
		return apperr.New(apperr.ServiceUnavailable, g.label+" API key not configured")
	}
	return nil
}

func required(v, msg string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.New(apperr.MissingField, msg)
	}
	return nil
}

// Summarize returns a short bullet-point summary of text.
func (g *Gateway) Summarize(ctx context.Context, text string) (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	if err := required(text, "No text provided"); err != nil {
		return "", err
	}
	return g.text(ctx, OpSummarize, summarizePrompt(text))
}

// Chat answers question using only docContext, which is capped at
// MaxChatContext characters.
func (g *Gateway) Chat(ctx context.Context, docContext, question string) (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	if strings.TrimSpace(docContext) == "" || strings.TrimSpace(question) == "" {
		return "", apperr.New(apperr.MissingField, "Missing context or question")
	}
	return g.text(ctx, OpChat, chatPrompt(docContext, question))
}

// Diagram returns Mermaid flowchart code describing text. The output has
// been through CleanDiagram.
func (g *Gateway) Diagram(ctx context.Context, text string) (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	if err := required(text, "No text provided"); err != nil {
		return "", err
	}
	raw, err := g.text(ctx, OpDiagram, diagramPrompt(text))
	if err != nil {
		return "", err
	}
	code := CleanDiagram(raw)
	logger.DebugContext(ctx, "generated diagram", "chars", len(code))
	return code, nil
}

// Speech narrates text, capped at MaxSpeechText characters, and returns a
// complete WAV file.
func (g *Gateway) Speech(ctx context.Context, text string) ([]byte, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	if err := required(text, "No text provided"); err != nil {
		return nil, err
	}

	var speech *Speech
	err := g.call(ctx, OpSpeech, func(ctx context.Context) error {
		var err error
		speech, err = g.model.GenerateSpeech(ctx, speechRequest(text))
		return err
	})
	if err != nil {
		return nil, err
	}
	if speech == nil || len(speech.PCM) == 0 {
		return nil, apperr.New(apperr.MalformedModelResponse, "model response contained no audio")
	}
	return audio.Frame(speech.PCM, speech.Format)
}

func (g *Gateway) text(ctx context.Context, op, prompt string) (string, error) {
	var out string
	err := g.call(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = g.model.GenerateText(ctx, prompt)
		return err
	})
	return out, err
}

// call runs fn with the gateway timeout, and logs and records the outcome.
func (g *Gateway) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	took := time.Since(start)

	g.metrics.ObserveCall("model", op, err, took)
	if err != nil {
		logger.ModelError(ctx, g.model.Provider(), op, err, "took", took)
		return err
	}
	logger.ModelCall(ctx, g.model.Provider(), op, took)
	return nil
}
