package ingest

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordEncoding is a trivial token codec: one word, one token. It keeps the
// splitter tests deterministic and offline.
type wordEncoding struct {
	vocab map[string]int
	words []string
}

func newWordEncoding() *wordEncoding {
	return &wordEncoding{vocab: make(map[string]int)}
}

func (e *wordEncoding) Encode(text string, _, _ []string) []int {
	var tokens []int
	for _, w := range strings.Fields(text) {
		id, ok := e.vocab[w]
		if !ok {
			id = len(e.words)
			e.vocab[w] = id
			e.words = append(e.words, w)
		}
		tokens = append(tokens, id)
	}
	return tokens
}

func (e *wordEncoding) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = e.words[t]
	}
	return strings.Join(words, " ")
}

func words(n int) string {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(ws, " ")
}

func TestSplitterWindows(t *testing.T) {
	s, err := NewSplitterWithEncoding(newWordEncoding(), 10, 5)
	require.NoError(t, err)

	chunks := s.Split(Document{Source: "doc", Content: words(25)})

	// Windows start every chunkSize-overlap tokens: 0, 5, 10, 15, 20.
	require.Len(t, chunks, 5)
	assert.Equal(t, "w0 w1 w2 w3 w4 w5 w6 w7 w8 w9", chunks[0].Text)
	assert.Equal(t, "w5 w6 w7 w8 w9 w10 w11 w12 w13 w14", chunks[1].Text)
	assert.Equal(t, "w20 w21 w22 w23 w24", chunks[4].Text)

	for i, c := range chunks {
		assert.Equal(t, "doc", c.Source)
		assert.Equal(t, i, c.Seq)
	}
}

func TestSplitterShortDocument(t *testing.T) {
	s, err := NewSplitterWithEncoding(newWordEncoding(), 100, 50)
	require.NoError(t, err)

	chunks := s.Split(Document{Source: "doc", Content: words(7)})

	require.Len(t, chunks, 1)
	assert.Equal(t, words(7), chunks[0].Text)
}

func TestSplitterEmptyDocument(t *testing.T) {
	s, err := NewSplitterWithEncoding(newWordEncoding(), 10, 5)
	require.NoError(t, err)

	assert.Empty(t, s.Split(Document{Source: "doc", Content: ""}))
}

func TestSplitterExactWindow(t *testing.T) {
	s, err := NewSplitterWithEncoding(newWordEncoding(), 10, 5)
	require.NoError(t, err)

	// Exactly one window of tokens must not produce a trailing overlap-only
	// chunk.
	chunks := s.Split(Document{Source: "doc", Content: words(10)})
	require.Len(t, chunks, 1)
}

func TestSplitterNoOverlap(t *testing.T) {
	s, err := NewSplitterWithEncoding(newWordEncoding(), 5, 0)
	require.NoError(t, err)

	chunks := s.Split(Document{Source: "doc", Content: words(12)})
	require.Len(t, chunks, 3)
	assert.Equal(t, "w10 w11", chunks[2].Text)
}

func TestSplitterInvalidParams(t *testing.T) {
	_, err := NewSplitterWithEncoding(newWordEncoding(), 0, 0)
	assert.Error(t, err)

	_, err = NewSplitterWithEncoding(newWordEncoding(), 10, 10)
	assert.Error(t, err)

	_, err = NewSplitterWithEncoding(newWordEncoding(), 10, -1)
	assert.Error(t, err)
}

func TestSplitAllPreservesOrder(t *testing.T) {
	s, err := NewSplitterWithEncoding(newWordEncoding(), 5, 0)
	require.NoError(t, err)

	chunks := s.SplitAll([]Document{
		{Source: "a", Content: words(6)},
		{Source: "b", Content: "hello world"},
	})

	require.Len(t, chunks, 3)
	assert.Equal(t, "a", chunks[0].Source)
	assert.Equal(t, "a", chunks[1].Source)
	assert.Equal(t, "b", chunks[2].Source)
	assert.Equal(t, 0, chunks[2].Seq)
}
