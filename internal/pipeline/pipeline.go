package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/seaward0/seaward/internal/index"
	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/websearch"
)

// Retriever returns the chunks most similar to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]Document, error)
}

// Grader judges whether one chunk is relevant to a question.
type Grader interface {
	Grade(ctx context.Context, question, fact string) (Verdict, error)
}

// Searcher runs the web-search fallback.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Generator produces the final answer from the question and document set.
type Generator interface {
	Generate(ctx context.Context, question string, docs []Document) (string, error)
}

// Pipeline wires the four nodes together. One Pipeline serves all requests;
// each Run works on its own State, so concurrent runs do not interact.
type Pipeline struct {
	retriever Retriever
	grader    Grader
	searcher  Searcher
	generator Generator
	logger    log.Logger
}

// New creates a Pipeline from its four node implementations.
func New(r Retriever, g Grader, s Searcher, gen Generator, logger log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Pipeline{
		retriever: r,
		grader:    g,
		searcher:  s,
		generator: gen,
		logger:    logger,
	}
}

// Run answers one question, returning the final state including the answer
// and the executed step trace. Node failures abort the run immediately; no
// retries, no partial results.
func (p *Pipeline) Run(ctx context.Context, question string) (State, error) {
	state := State{Question: question, Search: SearchNo}

	for current := nodeRetrieve; current != nodeEnd; {
		var err error
		switch current {
		case nodeRetrieve:
			err = p.retrieve(ctx, &state)
		case nodeGrade:
			err = p.grade(ctx, &state)
		case nodeWebSearch:
			err = p.webSearch(ctx, &state)
		case nodeGenerate:
			err = p.generate(ctx, &state)
		default:
			err = fmt.Errorf("unknown node %q", current)
		}
		if err != nil {
			return State{}, fmt.Errorf("pipeline node %s: %w", current, err)
		}

		current, err = nextNode(current, state.Search)
		if err != nil {
			return State{}, err
		}
	}

	return state, nil
}

func (p *Pipeline) retrieve(ctx context.Context, state *State) error {
	state.Steps = append(state.Steps, StepRetrieve)

	docs, err := p.retriever.Retrieve(ctx, state.Question)
	if err != nil {
		return err
	}
	state.Documents = docs
	p.logger.Debug("retrieved chunks", "count", len(docs))
	return nil
}

// grade filters Documents to the relevant ones, one model call per chunk,
// in sequence. A single irrelevant chunk sets the search flag; so does an
// empty retrieval, since there are no facts to judge relevant.
func (p *Pipeline) grade(ctx context.Context, state *State) error {
	state.Steps = append(state.Steps, StepGrade)

	state.Search = SearchNo
	if len(state.Documents) == 0 {
		state.Search = SearchYes
		return nil
	}

	filtered := make([]Document, 0, len(state.Documents))
	for _, doc := range state.Documents {
		verdict, err := p.grader.Grade(ctx, state.Question, doc.Text)
		if err != nil {
			return err
		}
		if verdict == VerdictYes {
			filtered = append(filtered, doc)
		} else {
			state.Search = SearchYes
		}
	}
	state.Documents = filtered
	p.logger.Debug("graded chunks",
		"relevant", len(filtered), "search", state.Search)
	return nil
}

// webSearch appends search results to the filtered documents. It never
// replaces them: relevant chunks and web results both reach generation.
func (p *Pipeline) webSearch(ctx context.Context, state *State) error {
	state.Steps = append(state.Steps, StepWebSearch)

	results, err := p.searcher.Search(ctx, state.Question)
	if err != nil {
		// Zero hits is not a failure: generation still runs and falls
		// back to its insufficient-information phrase.
		if errors.Is(err, websearch.ErrNoResults) {
			p.logger.Debug("web search returned no results",
				"question", state.Question)
			return nil
		}
		return err
	}
	for _, r := range results {
		state.Documents = append(state.Documents, Document{
			Text:   r.Content,
			Source: r.URL,
		})
	}
	p.logger.Debug("appended web results", "count", len(results))
	return nil
}

func (p *Pipeline) generate(ctx context.Context, state *State) error {
	state.Steps = append(state.Steps, StepGenerate)

	answer, err := p.generator.Generate(ctx, state.Question, state.Documents)
	if err != nil {
		return err
	}
	state.Generation = answer
	return nil
}

// IndexRetriever adapts the persistent index to the Retriever interface.
type IndexRetriever struct {
	index *index.Index
	topK  int
}

// NewIndexRetriever creates a retriever returning the topK nearest chunks.
func NewIndexRetriever(ix *index.Index, topK int) *IndexRetriever {
	return &IndexRetriever{index: ix, topK: topK}
}

// Retrieve returns the nearest chunks to the question, best first.
func (r *IndexRetriever) Retrieve(ctx context.Context, question string) ([]Document, error) {
	results, err := r.index.Search(ctx, question, r.topK)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(results))
	for i, res := range results {
		docs[i] = Document{Text: res.Text, Source: res.Source}
	}
	return docs, nil
}
