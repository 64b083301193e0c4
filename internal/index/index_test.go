package index

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	chromem "github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward0/seaward/internal/ingest"
	"github.com/seaward0/seaward/internal/log"
)

// bagEmbedding is a deterministic offline embedding: a small bag-of-words
// vector, so texts sharing words score higher cosine similarity.
func bagEmbedding(_ context.Context, text string) ([]float32, error) {
	const dim = 16
	vec := make([]float32, dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%dim]++
	}
	// chromem rejects zero vectors; give empty text a fixed component.
	vec[0]++
	return vec, nil
}

func testChunks() []ingest.Chunk {
	return []ingest.Chunk{
		{Source: "vsa.pdf", Seq: 0, Text: "slot allocation per voyage for each carrier"},
		{Source: "vsa.pdf", Seq: 1, Text: "liability and indemnity between the parties"},
		{Source: "vsa.pdf", Seq: 2, Text: "termination notice period of the agreement"},
	}
}

func openTestIndex(t *testing.T, dir string) *Index {
	t.Helper()
	ix, err := Open(dir, chromem.EmbeddingFunc(bagEmbedding), log.NewNop())
	require.NoError(t, err)
	return ix
}

func TestSearchRanksRelevantChunkFirst(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, t.TempDir())
	require.NoError(t, ix.Add(ctx, testChunks()))

	results, err := ix.Search(ctx, "slot allocation per voyage", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "vsa.pdf#0", results[0].ID)
	assert.Equal(t, "vsa.pdf", results[0].Source)
	assert.Contains(t, results[0].Text, "slot allocation")
	// Descending similarity order.
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
	assert.GreaterOrEqual(t, results[1].Similarity, results[2].Similarity)
}

func TestSearchClampsTopK(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, t.TempDir())
	require.NoError(t, ix.Add(ctx, testChunks()))

	// Asking for more results than indexed chunks must not error.
	results, err := ix.Search(ctx, "agreement", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := openTestIndex(t, t.TempDir())

	results, err := ix.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ix := openTestIndex(t, dir)
	require.NoError(t, ix.Add(ctx, testChunks()))
	require.Equal(t, 3, ix.Count())

	// A fresh Open over the same directory sees the persisted chunks without
	// re-adding them.
	reopened := openTestIndex(t, dir)
	assert.Equal(t, 3, reopened.Count())

	results, err := reopened.Search(ctx, "termination notice period", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "vsa.pdf#2", results[0].ID)
}

func TestAddSameChunkOverwrites(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, t.TempDir())

	require.NoError(t, ix.Add(ctx, testChunks()))
	require.NoError(t, ix.Add(ctx, testChunks()))

	assert.Equal(t, 3, ix.Count())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, t.TempDir())
	require.NoError(t, ix.Add(ctx, testChunks()))

	require.NoError(t, ix.Reset())
	assert.Equal(t, 0, ix.Count())

	// The index stays usable after a reset.
	require.NoError(t, ix.Add(ctx, testChunks()[:1]))
	assert.Equal(t, 1, ix.Count())
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Exists(dir))
	assert.False(t, Exists(dir+"/missing"))
}
