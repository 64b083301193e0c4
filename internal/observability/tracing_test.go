package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward0/seaward/internal/log"
)

func TestSetupDisabled(t *testing.T) {
	shutdown := Setup(context.Background(), Config{Enabled: false}, log.NewNop())
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupEnabled(t *testing.T) {
	// Exporter creation is lazy; nothing connects to the endpoint until a
	// span batch is flushed, so an unreachable endpoint is fine here.
	shutdown := Setup(context.Background(), Config{
		Enabled:     true,
		Endpoint:    "localhost:0",
		ServiceName: "seaward-test",
		Environment: "test",
	}, log.NewNop())
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
