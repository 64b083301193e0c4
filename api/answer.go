package api

import (
	"net/http"

	"github.com/firebase/genkit/go/genkit"

	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/pipeline"
)

// AnswerHandler exposes the answer pipeline over HTTP via its Genkit Flow.
//
// POST /api/answer
// Request:  {"question": "...", "sessionId": "..."}
// Response: {"answer": "...", "steps": [...], "sessionId": "..."}
type AnswerHandler struct {
	flow   *pipeline.Flow
	logger log.Logger
}

// NewAnswerHandler creates an answer handler with the given Flow.
func NewAnswerHandler(flow *pipeline.Flow, logger log.Logger) *AnswerHandler {
	return &AnswerHandler{flow: flow, logger: logger}
}

// RegisterRoutes registers the answer route on the given mux.
func (h *AnswerHandler) RegisterRoutes(mux *http.ServeMux) {
	if h.flow == nil {
		if h.logger != nil {
			h.logger.Warn("answer flow is nil, answer endpoint not registered")
		}
		return
	}
	mux.Handle("POST /api/answer", genkit.Handler(h.flow))
}
