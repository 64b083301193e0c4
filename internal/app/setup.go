package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seaward0/seaward/db"
	"github.com/seaward0/seaward/internal/config"
	"github.com/seaward0/seaward/internal/index"
	"github.com/seaward0/seaward/internal/ingest"
	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/observability"
	"github.com/seaward0/seaward/internal/pipeline"
	"github.com/seaward0/seaward/internal/session"
	"github.com/seaward0/seaward/internal/sqlc"
	"github.com/seaward0/seaward/internal/websearch"
)

// Setup creates and initializes the application. On error, everything
// already initialized is released; on success, call Close().
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	if err := config.CheckRequiredEnv(); err != nil {
		return nil, err
	}

	// Span export must be registered before Genkit initializes so its
	// tracer provider ships flow spans from the first request on.
	a.otelShutdown = observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
	}, logger)

	pool, dbCleanup, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.dbCleanup = dbCleanup
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	ix, err := index.Open(cfg.IndexDir, index.NewEmbeddingFunc(embedder), logger)
	if err != nil {
		return nil, err
	}
	a.Index = ix

	a.Loader = ingest.NewLoader(cfg.WebScraper, logger)
	splitter, err := ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	a.Splitter = splitter

	a.Search = websearch.New(cfg.SearXNG, logger)
	a.SessionStore = session.New(sqlc.New(pool), pool, logger)

	a.Pipeline = pipeline.New(
		pipeline.NewIndexRetriever(ix, cfg.TopK),
		pipeline.NewLLMGrader(g, cfg.FullModelName()),
		a.Search,
		pipeline.NewLLMGenerator(g, cfg.FullModelName()),
		logger,
	)
	a.Flow = pipeline.NewFlow(g, a.Pipeline, a.SessionStore, logger)

	return a, nil
}

// EnsureIndex makes sure the agreement index holds chunks. An already
// populated index is reused as-is unless rebuild is set, in which case it is
// dropped and re-embedded from the configured sources.
func (a *App) EnsureIndex(ctx context.Context, rebuild bool) error {
	if rebuild {
		if err := a.Index.Reset(); err != nil {
			return err
		}
	} else if a.Index.Count() > 0 {
		a.Logger.Debug("reusing persisted index",
			"dir", a.Config.IndexDir, "chunks", a.Index.Count())
		return nil
	}

	a.Logger.Info("building index", "sources", len(a.Config.Sources))
	docs, err := a.Loader.LoadAll(ctx, a.Config.Sources)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	chunks := a.Splitter.SplitAll(docs)
	if err := a.Index.Add(ctx, chunks); err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	a.Logger.Info("index built", "chunks", len(chunks))
	return nil
}

// provideGenkit initializes Genkit with the Gemini plugin. The plugin reads
// GEMINI_API_KEY from the environment.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	return g, nil
}

// provideDBPool runs migrations and creates the PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, func(), error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing connection config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, pool.Close, nil
}
