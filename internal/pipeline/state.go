// Package pipeline implements the corrective question-answering workflow
// over the agreement index: retrieve chunks, grade each one for relevance,
// fall back to web search when any chunk is irrelevant, then generate a
// cited answer. The workflow is a fixed four-node state machine with a
// single conditional branch; every run records the steps it executed.
package pipeline

import (
	"fmt"
)

// Step names recorded in the trace, in the order nodes can execute.
const (
	StepRetrieve  = "retrieve_documents"
	StepGrade     = "grade_document_retrieval"
	StepWebSearch = "web_search"
	StepGenerate  = "generate_answer"
)

// SearchFlag records whether the web-search fallback is needed.
type SearchFlag string

const (
	SearchYes SearchFlag = "Yes"
	SearchNo  SearchFlag = "No"
)

// Document is a working document flowing through the pipeline: either an
// indexed agreement chunk or an appended web search result.
type Document struct {
	// Text is the chunk or search-result content.
	Text string
	// Source is the originating document path for indexed chunks, or the
	// result URL for web search documents.
	Source string
}

// State is the mutable record threaded through one pipeline run. Steps only
// grows; Documents shrinks during grading and then only grows; Generation is
// empty until the final node runs.
type State struct {
	Question   string
	Documents  []Document
	Search     SearchFlag
	Steps      []string
	Generation string
}

// node identifies a state-machine node.
type node string

const (
	nodeRetrieve  node = "retrieve"
	nodeGrade     node = "grade_documents"
	nodeWebSearch node = "web_search"
	nodeGenerate  node = "generate"
	nodeEnd       node = "end"
)

// transition keys the table on the finished node and the search flag.
// anyFlag matches regardless of the flag for unconditional edges.
type transition struct {
	from   node
	search SearchFlag
}

const anyFlag SearchFlag = "*"

// transitions is the full edge set of the workflow. The only conditional
// edge leaves grading: flag Yes detours through web search, flag No goes
// straight to generation.
var transitions = map[transition]node{
	{nodeRetrieve, anyFlag}:   nodeGrade,
	{nodeGrade, SearchYes}:    nodeWebSearch,
	{nodeGrade, SearchNo}:     nodeGenerate,
	{nodeWebSearch, anyFlag}:  nodeGenerate,
	{nodeGenerate, anyFlag}:   nodeEnd,
}

// nextNode resolves the successor of a finished node. Flag-specific edges
// take precedence over unconditional ones.
func nextNode(from node, search SearchFlag) (node, error) {
	if next, ok := transitions[transition{from, search}]; ok {
		return next, nil
	}
	if next, ok := transitions[transition{from, anyFlag}]; ok {
		return next, nil
	}
	return "", fmt.Errorf("no transition from node %q with search flag %q", from, search)
}
