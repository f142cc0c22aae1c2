package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/bionic-api/internal/apperr"
	"github.com/porticus-lab/bionic-api/internal/extract/extracttest"
)

func TestExtract_SinglePage(t *testing.T) {
	data := extracttest.BuildPDF(extracttest.Text("Hello World"))

	doc, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Hello")
	assert.Equal(t, 1, doc.PageCount())
}

func TestExtract_PageOrder(t *testing.T) {
	data := extracttest.BuildPDF(
		extracttest.Text("Alpha"),
		extracttest.Text("Bravo"),
		extracttest.Text("Charlie"),
	)

	doc, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, 3, doc.PageCount())

	a := strings.Index(doc.Text, "Alpha")
	b := strings.Index(doc.Text, "Bravo")
	c := strings.Index(doc.Text, "Charlie")
	require.True(t, a >= 0 && b >= 0 && c >= 0, "text = %q", doc.Text)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Equal(t, doc.Pages[0]+doc.Pages[1]+doc.Pages[2], doc.Text)
}

func TestExtract_Empty(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.EmptyUpload))
}

func TestExtract_Corrupt(t *testing.T) {
	for name, data := range map[string][]byte{
		"not a pdf": []byte("this is plain text, not a PDF"),
		"truncated": extracttest.BuildPDF(extracttest.Text("Hi"))[:40],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New().Extract(context.Background(), data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.CorruptDocument), "got %v", err)
		})
	}
}

func TestExtract_NoText(t *testing.T) {
	data := extracttest.BuildPDF([]byte("0 0 m 100 100 l S"))

	_, err := New().Extract(context.Background(), data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.NoTextContent), "got %v", err)

	doc, err := New().ExtractPages(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())
}

func TestExtract_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, extracttest.BuildPDF(extracttest.Text("Hi")))
	assert.ErrorIs(t, err, context.Canceled)
}
