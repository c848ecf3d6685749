package entity

import "strings"

// OutputKey is the result field an agent executor fills with its final answer.
const OutputKey = "output"

type AgentShape string

const (
	AgentShapeExecutor AgentShape = "executor"
	AgentShapeRun      AgentShape = "run"
)

func (s AgentShape) String() string {
	return string(s)
}

// AgentResult is the normalized answer of one agent invocation.
type AgentResult struct {
	Output    string
	HasOutput bool
}

// Valid reports whether the result carries a usable answer.
func (r AgentResult) Valid() bool {
	return r.HasOutput && strings.TrimSpace(r.Output) != ""
}

// ResultFromMap reads the output field of a result mapping. A missing key, a
// non-string value or an empty string all produce an invalid result.
func ResultFromMap(values map[string]any) AgentResult {
	if values == nil {
		return AgentResult{}
	}
	raw, ok := values[OutputKey]
	if !ok {
		return AgentResult{}
	}
	text, ok := raw.(string)
	if !ok {
		return AgentResult{}
	}
	return AgentResult{Output: text, HasOutput: true}
}

func ResultFromText(text string) AgentResult {
	return AgentResult{Output: text, HasOutput: text != ""}
}
