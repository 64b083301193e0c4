package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// answerPrompt is the generation template. The citation markers, bullet
// formatting, language mirroring, insufficient-information phrase and length
// cap are instructions to the model, not validated by code.
const answerPrompt = `You are a Vessel Sharing Agreement (VSA) specialist with a deep understanding of maritime logistics and shipping contracts. Your task is to provide detailed and accurate information in response to user questions about VSAs, particularly focusing on the agreement between CHERRY and OLIVE shipping liners.

Guidelines for answering:
1. Use the provided context (Documents) to answer the user's question in detail.
2. Create a final answer with references, using "SOURCE[number]" in capital letters (e.g., SOURCE[1], SOURCE[2]).
3. Present information in a clear, concise, and easily understandable manner, using bullet points for organization when appropriate.
4. If the question is unclear, politely ask the user for clarification.
5. For questions about specific VSA terms:
   - Provide details on: definition, relevant clauses, obligations of parties, penalties or compensations (if applicable), and any related operational procedures.
   - If this information is not in the provided context, state that you need to refer to the full VSA document for accurate details.
6. Respond in the language of the user's question. If unable to determine the language, default to English.
7. If you don't know the answer or if the information is not in the provided context, clearly state "I don't have enough information to answer this question accurately. Please refer to the full Vessel Sharing Agreement document or consult with a VSA expert for the most up-to-date and accurate information."
8. Limit your response to a maximum of 300 words unless the question specifically requires a longer answer.

Context format:
The 'Documents' field contains relevant excerpts from the Vessel Sharing Agreement and related sources. Each document is separated by triple dashes (---) and may include metadata such as section titles or clause numbers.

Question: %s
Documents: %s
Answer:`

// documentSeparator joins documents in the prompt context.
const documentSeparator = "\n---\n"

// LLMGenerator produces the final cited answer.
type LLMGenerator struct {
	g     *genkit.Genkit
	model string
}

// NewLLMGenerator creates a generator bound to the given model name.
func NewLLMGenerator(g *genkit.Genkit, model string) *LLMGenerator {
	return &LLMGenerator{g: g, model: model}
}

// Generate answers the question from the given document set. The model's
// raw text output is the answer; no post-processing is applied.
func (lg *LLMGenerator) Generate(ctx context.Context, question string, docs []Document) (string, error) {
	resp, err := genkit.Generate(ctx, lg.g,
		ai.WithModelName(lg.model),
		ai.WithPrompt(answerPrompt, question, formatDocuments(docs)),
	)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return resp.Text(), nil
}

// formatDocuments renders the document set for the prompt, separated by
// triple dashes and tagged with their source.
func formatDocuments(docs []Document) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		if d.Source != "" {
			parts[i] = fmt.Sprintf("[%s] %s", d.Source, d.Text)
		} else {
			parts[i] = d.Text
		}
	}
	return strings.Join(parts, documentSeparator)
}
