package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"

	"github.com/seaward0/seaward/internal/log"
)

// FlowName is the registered name of the answer flow in Genkit.
const FlowName = "seaward/answer"

// Input is the request payload for the answer flow.
type Input struct {
	Question string `json:"question"`
	// SessionID is optional; when set, the exchange is recorded in the
	// session store.
	SessionID string `json:"sessionId,omitempty"`
}

// Output is the response payload from the answer flow.
type Output struct {
	Answer    string   `json:"answer"`
	Steps     []string `json:"steps"`
	SessionID string   `json:"sessionId,omitempty"`
}

// Recorder persists one question/answer exchange in a session.
// session.Store satisfies this interface.
type Recorder interface {
	RecordExchange(ctx context.Context, sessionID uuid.UUID, question, answer string, steps []string) error
}

// Flow is the Genkit flow type for the answer pipeline.
// Exported for use with genkit.Handler() in the api package.
type Flow = core.Flow[Input, Output, struct{}]

// Genkit panics on flow re-registration, so the flow is a process singleton.
var (
	flowOnce sync.Once
	flow     *Flow
)

// NewFlow returns the answer flow singleton, initializing it on first call.
// Subsequent calls return the existing flow and ignore the parameters.
func NewFlow(g *genkit.Genkit, p *Pipeline, rec Recorder, logger log.Logger) *Flow {
	flowOnce.Do(func() {
		flow = defineFlow(g, p, rec, logger)
	})
	return flow
}

// ResetFlowForTesting resets the flow singleton. Only for tests.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
}

func defineFlow(g *genkit.Genkit, p *Pipeline, rec Recorder, logger log.Logger) *Flow {
	if logger == nil {
		logger = log.NewNop()
	}
	return genkit.DefineFlow(g, FlowName,
		func(ctx context.Context, input Input) (Output, error) {
			// Validate the session ID up front: a malformed ID must fail
			// before any model call is spent on the pipeline.
			var sessionID uuid.UUID
			if input.SessionID != "" {
				var err error
				sessionID, err = uuid.Parse(input.SessionID)
				if err != nil {
					return Output{}, fmt.Errorf("invalid session id %q: %w", input.SessionID, err)
				}
			}

			state, err := p.Run(ctx, input.Question)
			if err != nil {
				return Output{SessionID: input.SessionID}, err
			}

			// Recording is best-effort: an unavailable session store must
			// not lose an already-generated answer.
			if rec != nil && input.SessionID != "" {
				if err := rec.RecordExchange(ctx, sessionID, input.Question, state.Generation, state.Steps); err != nil {
					logger.Warn("failed to record exchange",
						"session_id", input.SessionID, "error", err)
				}
			}

			return Output{
				Answer:    state.Generation,
				Steps:     state.Steps,
				SessionID: input.SessionID,
			}, nil
		})
}
