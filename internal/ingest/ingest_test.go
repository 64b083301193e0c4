package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward0/seaward/internal/config"
	"github.com/seaward0/seaward/internal/log"
)

func testLoader() *Loader {
	return NewLoader(config.WebScraperConfig{
		Parallelism: 1,
		DelayMs:     0,
		TimeoutMs:   5000,
	}, log.NewNop())
}

func TestLoadUnsupportedSource(t *testing.T) {
	l := testLoader()

	for _, source := range []string{"notes.txt", "agreement.docx", "ftp://example.com/vsa.pdf", ""} {
		_, err := l.Load(context.Background(), source)
		assert.ErrorIs(t, err, ErrUnsupportedSource, "source %q", source)
	}
}

func TestLoadWebPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Slot Allocation</title></head>
<body><article><h1>Slot Allocation</h1>
<p>Each carrier receives a fixed allocation of vessel slots per voyage,
as recorded in the agreement schedule. Unused slots may be offered to the
other party on a voyage-by-voyage basis without altering the baseline
allocation for subsequent voyages.</p></article>
<script>console.log("ignored")</script></body></html>`))
	}))
	defer srv.Close()

	doc, err := testLoader().Load(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, doc.Source)
	assert.Contains(t, doc.Content, "fixed allocation of vessel slots")
	assert.NotContains(t, doc.Content, "console.log")
}

func TestLoadWebPageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testLoader().Load(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLoadWebPageCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testLoader().Load(ctx, "http://localhost:1/never")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAllFailsFast(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>Vessel sharing terms apply to both parties equally.</p></body></html>`))
	}))
	defer srv.Close()

	_, err := testLoader().LoadAll(context.Background(), []string{
		srv.URL,
		"broken-source",
		srv.URL + "/second",
	})

	require.ErrorIs(t, err, ErrUnsupportedSource)
	// The source after the failing one must not be fetched.
	assert.Equal(t, 1, hits)
}

func TestLoadPDFMissingFile(t *testing.T) {
	_, err := testLoader().Load(context.Background(), "does-not-exist.pdf")
	assert.Error(t, err)
}

func TestCollapseWhitespace(t *testing.T) {
	in := "a   b\n\n\n  c  d \n"
	assert.Equal(t, "a b\nc d", collapseWhitespace(in))
}
