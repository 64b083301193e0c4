package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Verdict is a binary relevance judgment for one chunk.
type Verdict string

const (
	VerdictYes Verdict = "yes"
	VerdictNo  Verdict = "no"
)

// ErrInvalidVerdict is returned when the model's structured output is not
// exactly "yes" or "no". The failure is surfaced rather than coerced so a
// drifting model cannot silently bias grading.
var ErrInvalidVerdict = errors.New("grader returned invalid verdict")

const gradeSystemPrompt = `You are a teacher grading a quiz. You will be given:
1/ a QUESTION
2/ a set of comma separated FACTS provided by the student

You are grading RELEVANCE RECALL:
A score of 1 means that ANY of the FACTS are relevant to the QUESTION.
A score of 0 means that NONE of the FACTS are relevant to the QUESTION.
1 is the highest (best) score. 0 is the lowest score you can give.

Explain your reasoning in a step-by-step manner. Ensure your reasoning and conclusion are correct.

Avoid simply stating the correct answer at the outset.`

// gradeOutput is the structured-output schema for one relevance judgment.
type gradeOutput struct {
	// BinaryScore is "yes" when the facts are relevant to the question.
	BinaryScore string `json:"binary_score"`
}

// LLMGrader grades chunk relevance with one model call per chunk.
type LLMGrader struct {
	g     *genkit.Genkit
	model string
}

// NewLLMGrader creates a grader bound to the given model name
// (e.g. "googleai/gemini-2.5-flash").
func NewLLMGrader(g *genkit.Genkit, model string) *LLMGrader {
	return &LLMGrader{g: g, model: model}
}

// Grade judges whether fact is relevant to question.
func (lg *LLMGrader) Grade(ctx context.Context, question, fact string) (Verdict, error) {
	resp, err := genkit.Generate(ctx, lg.g,
		ai.WithModelName(lg.model),
		ai.WithSystem(gradeSystemPrompt),
		ai.WithPrompt("FACTS: \n\n %s \n\n QUESTION: %s", fact, question),
		ai.WithOutputType(gradeOutput{}),
	)
	if err != nil {
		return "", fmt.Errorf("grading chunk: %w", err)
	}

	var out gradeOutput
	if err := resp.Output(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidVerdict, err)
	}

	switch Verdict(strings.ToLower(strings.TrimSpace(out.BinaryScore))) {
	case VerdictYes:
		return VerdictYes, nil
	case VerdictNo:
		return VerdictNo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVerdict, out.BinaryScore)
	}
}
