// Package index persists the agreement's vector index on disk and serves
// similarity search over it. chromem-go keeps everything in memory and
// writes each document to the index directory, so a process restart reopens
// the same index without re-embedding.
package index

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/seaward0/seaward/internal/ingest"
	"github.com/seaward0/seaward/internal/log"
)

// CollectionName is the single collection holding the agreement chunks.
const CollectionName = "vsa"

// Result is a retrieved chunk with its similarity score.
type Result struct {
	ID         string
	Source     string
	Text       string
	Similarity float32
}

// Index wraps a persistent chromem-go collection.
// Safe for concurrent reads; Add and Reset must not race with Search.
type Index struct {
	db     *chromem.DB
	col    *chromem.Collection
	dir    string
	embed  chromem.EmbeddingFunc
	logger log.Logger
}

// Exists reports whether an index directory is already present at dir.
// Deciding load-vs-build happens before any embedding work.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Open opens the index at dir, creating it when absent. A directory that
// exists but fails to load is treated as corrupt: it is removed and recreated
// empty, with a warning, so the caller's ensure-built pass re-embeds it.
func Open(dir string, embed chromem.EmbeddingFunc, logger log.Logger) (*Index, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	db, err := chromem.NewPersistentDB(dir, true)
	if err != nil {
		logger.Warn("index failed to load, rebuilding from scratch",
			"dir", dir, "error", err)
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			return nil, fmt.Errorf("removing corrupt index: %w", rmErr)
		}
		db, err = chromem.NewPersistentDB(dir, true)
		if err != nil {
			return nil, fmt.Errorf("opening index: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(CollectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("opening collection %q: %w", CollectionName, err)
	}

	return &Index{db: db, col: col, dir: dir, embed: embed, logger: logger}, nil
}

// Count returns the number of indexed chunks.
func (ix *Index) Count() int {
	return ix.col.Count()
}

// Add embeds and persists the given chunks. Chunk IDs are derived from
// source and sequence, so re-adding the same chunk overwrites it.
func (ix *Index) Add(ctx context.Context, chunks []ingest.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:      c.Source + "#" + strconv.Itoa(c.Seq),
			Content: c.Text,
			Metadata: map[string]string{
				"source": c.Source,
				"seq":    strconv.Itoa(c.Seq),
			},
		}
	}

	if err := ix.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding %d chunks: %w", len(chunks), err)
	}
	ix.logger.Info("indexed chunks", "count", len(chunks), "total", ix.col.Count())
	return nil
}

// Search returns up to topK chunks most similar to the query, best first.
// An empty index yields no results rather than an error; chromem-go rejects
// nResults above the collection size, so topK is clamped.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	count := ix.col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	hits, err := ix.col.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			ID:         h.ID,
			Source:     h.Metadata["source"],
			Text:       h.Content,
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

// Reset drops every indexed chunk and starts an empty collection, used by
// explicit rebuilds.
func (ix *Index) Reset() error {
	if err := ix.db.DeleteCollection(CollectionName); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	col, err := ix.db.GetOrCreateCollection(CollectionName, nil, ix.embed)
	if err != nil {
		return fmt.Errorf("recreating collection: %w", err)
	}
	ix.col = col
	return nil
}
