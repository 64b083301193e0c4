// Package app wires the application together: configuration, database,
// Genkit, the vector index, and the answer pipeline. Everything is
// constructed explicitly in Setup and torn down in Close; no package-level
// singletons beyond the Genkit flow registry.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seaward0/seaward/internal/config"
	"github.com/seaward0/seaward/internal/index"
	"github.com/seaward0/seaward/internal/ingest"
	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/pipeline"
	"github.com/seaward0/seaward/internal/session"
	"github.com/seaward0/seaward/internal/websearch"
)

// App holds all initialized application components.
type App struct {
	Config *config.Config
	Logger log.Logger

	DBPool   *pgxpool.Pool
	Genkit   *genkit.Genkit
	Embedder ai.Embedder

	Index    *index.Index
	Loader   *ingest.Loader
	Splitter *ingest.Splitter

	SessionStore *session.Store
	Pipeline     *pipeline.Pipeline
	Flow         *pipeline.Flow
	Search       *websearch.Client

	dbCleanup    func()
	otelShutdown func(context.Context) error
}

// Close releases all resources. Safe to call on a partially initialized App.
func (a *App) Close() error {
	if a.dbCleanup != nil {
		a.dbCleanup()
		a.dbCleanup = nil
	}
	if a.otelShutdown != nil {
		// Flush pending spans before the process exits.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdown := a.otelShutdown
		a.otelShutdown = nil
		if err := shutdown(ctx); err != nil {
			return fmt.Errorf("shutting down tracing: %w", err)
		}
	}
	return nil
}
