package ingest

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is one token-window slice of a source document.
type Chunk struct {
	// Source is the originating document's URL or path.
	Source string
	// Seq is the zero-based position of the chunk within its document.
	Seq int
	// Text is the decoded chunk content.
	Text string
}

// Encoding is the token codec the splitter windows over. *tiktoken.Tiktoken
// satisfies it; tests substitute a local codec to avoid the BPE download.
type Encoding interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// Splitter cuts text into fixed-size token windows with overlap, so chunk
// boundaries never fall mid-token and adjacent chunks share context.
type Splitter struct {
	enc       Encoding
	chunkSize int
	overlap   int
}

// NewSplitter creates a Splitter using the cl100k_base encoding.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return NewSplitterWithEncoding(enc, chunkSize, overlap)
}

// NewSplitterWithEncoding creates a Splitter over an explicit encoding.
func NewSplitterWithEncoding(enc Encoding, chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got %d", overlap)
	}
	return &Splitter{enc: enc, chunkSize: chunkSize, overlap: overlap}, nil
}

// Split cuts a document into overlapping token windows. Empty content yields
// no chunks. The final window may be shorter than chunkSize.
func (s *Splitter) Split(doc Document) []Chunk {
	tokens := s.enc.Encode(doc.Content, nil, nil)
	if len(tokens) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap
	chunks := make([]Chunk, 0, (len(tokens)+step-1)/step)
	for start, seq := 0, 0; start < len(tokens); start, seq = start+step, seq+1 {
		end := start + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, Chunk{
			Source: doc.Source,
			Seq:    seq,
			Text:   s.enc.Decode(tokens[start:end]),
		})
		if end == len(tokens) {
			break
		}
	}
	return chunks
}

// SplitAll splits every document, preserving document order.
func (s *Splitter) SplitAll(docs []Document) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		chunks = append(chunks, s.Split(doc)...)
	}
	return chunks
}
