package v1

import "time"

// Passage is a retrieved chunk of the corpus with its relevance score.
type Passage struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
}

// Answer is a composed response with the passages that back it.
type Answer struct {
	ID       string    `json:"id"`
	Query    string    `json:"query"`
	Text     string    `json:"text"`
	Mode     string    `json:"mode"`
	Passages []Passage `json:"passages,omitempty"`
}

// BuildInfo describes a published index build.
type BuildInfo struct {
	ID        string    `json:"id"`
	BuiltAt   time.Time `json:"built_at"`
	Passages  int       `json:"passages"`
	Dimension int       `json:"dimension"`
	Backend   string    `json:"backend"`
	Revision  string    `json:"revision,omitempty"`
}

// GateResult summarizes a gate run.
type GateResult struct {
	Verdict string   `json:"verdict"`
	Total   int      `json:"total"`
	Failing []string `json:"failing,omitempty"`
}
