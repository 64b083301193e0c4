package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward0/seaward/internal/log"
)

type fakeRecorder struct {
	sessionID uuid.UUID
	question  string
	answer    string
	steps     []string
	err       error
	calls     int
}

func (f *fakeRecorder) RecordExchange(_ context.Context, sessionID uuid.UUID, question, answer string, steps []string) error {
	f.calls++
	f.sessionID = sessionID
	f.question = question
	f.answer = answer
	f.steps = steps
	return f.err
}

func allYesGrader() *fakeGrader {
	return &fakeGrader{verdicts: map[string]Verdict{
		"slot allocation terms": VerdictYes,
		"liability clauses":     VerdictYes,
		"unrelated boilerplate": VerdictYes,
	}}
}

func TestFlowRunsPipeline(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	ctx := context.Background()
	g := genkit.Init(ctx)

	p := newPipeline(
		&fakeRetriever{docs: chunkDocs()}, allYesGrader(),
		&fakeSearcher{}, &fakeGenerator{answer: "cited answer"},
	)
	flow := NewFlow(g, p, nil, log.NewNop())

	out, err := flow.Run(ctx, Input{Question: "What are the slot allocation terms?"})
	require.NoError(t, err)

	assert.Equal(t, "cited answer", out.Answer)
	assert.Equal(t, []string{StepRetrieve, StepGrade, StepGenerate}, out.Steps)
	assert.Empty(t, out.SessionID)
}

func TestFlowRecordsExchange(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	ctx := context.Background()
	g := genkit.Init(ctx)

	rec := &fakeRecorder{}
	p := newPipeline(
		&fakeRetriever{docs: chunkDocs()}, allYesGrader(),
		&fakeSearcher{}, &fakeGenerator{answer: "cited answer"},
	)
	flow := NewFlow(g, p, rec, log.NewNop())

	sessionID := uuid.New()
	out, err := flow.Run(ctx, Input{
		Question:  "What are the slot allocation terms?",
		SessionID: sessionID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, sessionID.String(), out.SessionID)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, sessionID, rec.sessionID)
	assert.Equal(t, "What are the slot allocation terms?", rec.question)
	assert.Equal(t, "cited answer", rec.answer)
	assert.Equal(t, out.Steps, rec.steps)
}

func TestFlowInvalidSessionID(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	ctx := context.Background()
	g := genkit.Init(ctx)

	rec := &fakeRecorder{}
	retriever := &fakeRetriever{docs: chunkDocs()}
	p := newPipeline(
		retriever, allYesGrader(),
		&fakeSearcher{}, &fakeGenerator{answer: "cited answer"},
	)
	flow := NewFlow(g, p, rec, log.NewNop())

	_, err := flow.Run(ctx, Input{
		Question:  "What are the slot allocation terms?",
		SessionID: "not-a-uuid",
	})
	require.Error(t, err)
	// The ID is rejected before the pipeline spends any model calls.
	assert.Zero(t, retriever.calls)
	assert.Zero(t, rec.calls)
}

func TestFlowRecordingFailureKeepsAnswer(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	ctx := context.Background()
	g := genkit.Init(ctx)

	rec := &fakeRecorder{err: errors.New("database unavailable")}
	p := newPipeline(
		&fakeRetriever{docs: chunkDocs()}, allYesGrader(),
		&fakeSearcher{}, &fakeGenerator{answer: "cited answer"},
	)
	flow := NewFlow(g, p, rec, log.NewNop())

	out, err := flow.Run(ctx, Input{
		Question:  "What are the slot allocation terms?",
		SessionID: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Equal(t, "cited answer", out.Answer)
	assert.Equal(t, 1, rec.calls)
}

func TestNewFlowIsSingleton(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	ctx := context.Background()
	g := genkit.Init(ctx)

	p := newPipeline(
		&fakeRetriever{docs: chunkDocs()}, allYesGrader(),
		&fakeSearcher{}, &fakeGenerator{answer: "a"},
	)
	first := NewFlow(g, p, nil, log.NewNop())
	second := NewFlow(g, p, nil, log.NewNop())
	assert.Same(t, first, second)
}
