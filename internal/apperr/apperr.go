// Package apperr defines the error taxonomy shared by every request handler.
//
// Each failure carries a [Kind] that fixes its HTTP status and a
// human-readable message that is safe to return to the caller:
//
//	return apperr.New(apperr.MissingField, "No text provided")
//
// Kinds match through wrapping, so callers can test with [errors.Is]:
//
//	if errors.Is(err, apperr.CorruptDocument) { ... }
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// UnhandledExternal wraps any failure of an external call that has no
	// more specific kind.
	UnhandledExternal Kind = iota
	// MissingField reports a required request field that is absent or empty.
	MissingField
	// EmptyUpload reports that no file, or an empty file, was uploaded.
	EmptyUpload
	// CorruptDocument reports a document that cannot be parsed.
	CorruptDocument
	// NoTextContent reports a document that parsed but holds no text.
	NoTextContent
	// MalformedAudioData reports a PCM buffer that is not a whole number of samples.
	MalformedAudioData
	// ServiceUnavailable reports missing operational configuration, such as
	// an AI credential.
	ServiceUnavailable
	// MalformedModelResponse reports a model response of unexpected shape.
	MalformedModelResponse
)

var kindNames = map[Kind]string{
	UnhandledExternal:      "unhandled external error",
	MissingField:           "missing field",
	EmptyUpload:            "empty upload",
	CorruptDocument:        "corrupt document",
	NoTextContent:          "no text content",
	MalformedAudioData:     "malformed audio data",
	ServiceUnavailable:     "service unavailable",
	MalformedModelResponse: "malformed model response",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error implements error so a Kind can be used directly as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case MissingField, EmptyUpload, CorruptDocument, NoTextContent, MalformedAudioData:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an Error of the given kind that wraps err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or
// UnhandledExternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnhandledExternal
}

// Message returns the caller-facing message for err. For unclassified errors
// it is err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
