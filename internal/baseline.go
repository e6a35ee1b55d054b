package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// Baseline is the answer a query produced on a recorded passing run.
type Baseline struct {
	Query    string `yaml:"query"`
	Answer   string `yaml:"answer"`
	Revision string `yaml:"revision,omitempty"`
}

type BaselineSet struct {
	RecordedAt time.Time  `yaml:"recorded_at"`
	Baselines  []Baseline `yaml:"baselines"`
}

func (s *BaselineSet) Lookup(query string) (Baseline, bool) {
	for _, b := range s.Baselines {
		if b.Query == query {
			return b, true
		}
	}
	return Baseline{}, false
}

// LoadBaselines returns an empty set when none were recorded yet.
func LoadBaselines(path string) (*BaselineSet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &BaselineSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read baselines: %w", err)
	}

	var set BaselineSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse baselines: %w", err)
	}
	return &set, nil
}

func SaveBaselines(path string, set *BaselineSet) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal baselines: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write baselines: %w", err)
	}
	return nil
}

// RecordBaselines captures the answers of a passing run so later failures
// can show what changed.
func RecordBaselines(report *GateReport) *BaselineSet {
	set := &BaselineSet{RecordedAt: time.Now().UTC()}
	for _, res := range report.Results {
		if !res.Passed() {
			continue
		}
		set.Baselines = append(set.Baselines, Baseline{
			Query:    res.Assertion.Query,
			Answer:   res.Answer,
			Revision: report.Revision,
		})
	}
	return set
}

// BaselineDrift is a rendered diff between the recorded answer and the one
// a failing assertion produced now.
type BaselineDrift struct {
	Query string `json:"query"`
	Diff  string `json:"diff"`
}

// DiffAgainstBaselines annotates failing assertions whose answers drifted
// from the recorded baseline.
func DiffAgainstBaselines(set *BaselineSet, report *GateReport) []BaselineDrift {
	if set == nil || len(set.Baselines) == 0 {
		return nil
	}

	dmp := diffmatchpatch.New()
	var drift []BaselineDrift
	for _, res := range report.Failing() {
		base, ok := set.Lookup(res.Assertion.Query)
		if !ok || base.Answer == res.Answer {
			continue
		}
		diffs := dmp.DiffMain(base.Answer, res.Answer, false)
		diffs = dmp.DiffCleanupSemantic(diffs)
		drift = append(drift, BaselineDrift{
			Query: res.Assertion.Query,
			Diff:  dmp.DiffPrettyText(diffs),
		})
	}
	return drift
}
