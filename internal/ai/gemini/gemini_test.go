package gemini

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/porticus-lab/bionic-api/internal/ai"
	"github.com/porticus-lab/bionic-api/internal/apperr"
)

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

func TestSampleRate(t *testing.T) {
	tests := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16; rate=16000", 16000},
		{"audio/pcm", 0},
		{"audio/L16;rate=abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampleRate(tt.mime), tt.mime)
	}
}

func TestResponseText(t *testing.T) {
	got, err := responseText(response(
		&genai.Part{Text: "thinking", Thought: true},
		&genai.Part{Text: "graph TD\n"},
		&genai.Part{Text: "A-->B"},
	))
	require.NoError(t, err)
	assert.Equal(t, "graph TD\nA-->B", got)
}

func TestResponseText_Empty(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, apperr.MalformedModelResponse)

	_, err = responseText(nil)
	assert.ErrorIs(t, err, apperr.MalformedModelResponse)
}

func TestResponseSpeech(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	sp, err := responseSpeech(response(&genai.Part{
		InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcm},
	}))
	require.NoError(t, err)
	assert.Equal(t, pcm, sp.PCM)
	assert.Equal(t, 24000, sp.Format.SampleRate)
}

func TestResponseSpeech_NoAudio(t *testing.T) {
	_, err := responseSpeech(response(&genai.Part{Text: "I can't say that"}))
	assert.ErrorIs(t, err, apperr.MalformedModelResponse)

	_, err = responseSpeech(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorIs(t, err, apperr.MalformedModelResponse)
}

func TestNew_Options(t *testing.T) {
	m, err := New(context.Background(), "test-key",
		WithTextModel("gemini-custom"),
		WithSpeechModel(""),
		WithVoice("Kore"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gemini", m.Provider())
	assert.Equal(t, "gemini-custom", m.textModel)
	assert.Equal(t, DefaultSpeechModel, m.speechModel)
	assert.Equal(t, "Kore", m.voice)
}

type capturedRequest struct {
	path string
	body string
}

func newTestModel(t *testing.T, status int, reply string, opts ...Option) (*Model, *[]capturedRequest) {
	t.Helper()
	var reqs []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, capturedRequest{path: r.URL.Path, body: string(body)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	m, err := New(context.Background(), "test-key", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	require.NoError(t, err)
	return m, &reqs
}

func TestGenerateText_RoundTrip(t *testing.T) {
	m, reqs := newTestModel(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"- one\n- two"}]}}]}`,
		WithTextModel("gemini-test"))

	out, err := m.GenerateText(context.Background(), "Summarize this")
	require.NoError(t, err)
	assert.Equal(t, "- one\n- two", out)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.True(t, strings.HasSuffix(got.path, "models/gemini-test:generateContent"), got.path)
	assert.Contains(t, got.body, "Summarize this")
	assert.NotContains(t, got.body, "AUDIO")
}

func TestGenerateSpeech_RoundTrip(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	reply := `{"candidates":[{"content":{"role":"model","parts":[{"inlineData":{"mimeType":"audio/L16;codec=pcm;rate=24000","data":"` +
		base64.StdEncoding.EncodeToString(pcm) + `"}}]}}]}`
	m, reqs := newTestModel(t, http.StatusOK, reply, WithVoice("Kore"))

	sp, err := m.GenerateSpeech(context.Background(), ai.SpeechRequest{Text: "Hello", Style: ai.NarrationStyle})
	require.NoError(t, err)
	assert.Equal(t, pcm, sp.PCM)
	assert.Equal(t, 24000, sp.Format.SampleRate)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.True(t, strings.HasSuffix(got.path, "models/"+DefaultSpeechModel+":generateContent"), got.path)
	assert.Contains(t, got.body, `"responseModalities":["AUDIO"]`)
	assert.Contains(t, got.body, `"voiceName":"Kore"`)
	assert.Contains(t, got.body, ai.NarrationStyle+": Hello")
}

func TestGenerateSpeech_NoVoiceConfig(t *testing.T) {
	m, reqs := newTestModel(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"no audio"}]}}]}`)

	_, err := m.GenerateSpeech(context.Background(), ai.SpeechRequest{Text: "Hello"})
	assert.ErrorIs(t, err, apperr.MalformedModelResponse)
	require.Len(t, *reqs, 1)
	assert.NotContains(t, (*reqs)[0].body, "voiceName")
}

func TestGenerateText_UpstreamError(t *testing.T) {
	m, _ := newTestModel(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)

	_, err := m.GenerateText(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: generate content")
	assert.Equal(t, apperr.UnhandledExternal, apperr.KindOf(err))
}
