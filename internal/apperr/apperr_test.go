package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{MissingField, http.StatusBadRequest},
		{EmptyUpload, http.StatusBadRequest},
		{CorruptDocument, http.StatusBadRequest},
		{NoTextContent, http.StatusBadRequest},
		{MalformedAudioData, http.StatusBadRequest},
		{ServiceUnavailable, http.StatusInternalServerError},
		{MalformedModelResponse, http.StatusInternalServerError},
		{UnhandledExternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	base := New(CorruptDocument, "Failed to open PDF.")
	wrapped := fmt.Errorf("extract: %w", base)

	assert.True(t, errors.Is(wrapped, CorruptDocument))
	assert.False(t, errors.Is(wrapped, MissingField))
	assert.Equal(t, CorruptDocument, KindOf(wrapped))
	assert.Equal(t, "Failed to open PDF.", Message(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("xref not found")
	err := Wrap(CorruptDocument, "Failed to open PDF.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to open PDF.: xref not found", err.Error())
	assert.Equal(t, "Failed to open PDF.", Message(err))
}

func TestUnclassifiedError(t *testing.T) {
	err := errors.New("connection reset")

	assert.Equal(t, UnhandledExternal, KindOf(err))
	assert.Equal(t, "connection reset", Message(err))
	assert.Equal(t, http.StatusInternalServerError, KindOf(err).Status())
}
