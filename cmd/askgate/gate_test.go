package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const gateCorpusDoc = "Deployments roll out through the staging cluster before production. A canary release takes one percent of traffic first."

func TestGateCmdPass(t *testing.T) {
	setupE2E(t, map[string]string{"deploy.txt": gateCorpusDoc}, `assertions:
  - query: how do deployments reach production
    require:
      - staging
`)

	out, err := runRoot(t, "gate")
	if err != nil {
		t.Fatalf("gate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "PASS") {
		t.Errorf("output = %q, want PASS", out)
	}
	if !strings.Contains(out, "1 assertions") {
		t.Errorf("output should count assertions, got: %q", out)
	}
}

func TestGateCmdFail(t *testing.T) {
	setupE2E(t, map[string]string{"deploy.txt": gateCorpusDoc}, `assertions:
  - query: how are database migrations applied
    require:
      - quantum entanglement
`)

	out, err := runRoot(t, "gate")
	if err == nil {
		t.Fatal("expected gate failure to return an error")
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("output = %q, want FAIL", out)
	}
	if !strings.Contains(out, `missing concept: "quantum entanglement"`) {
		t.Errorf("output should name the missing concept, got: %q", out)
	}
	if !strings.Contains(err.Error(), "gate failed") {
		t.Errorf("error = %v", err)
	}
}

func TestGateCmdJSON(t *testing.T) {
	setupE2E(t, map[string]string{"deploy.txt": gateCorpusDoc}, `assertions:
  - query: how do deployments reach production
    require:
      - staging
      - canary
`)

	out, err := runRoot(t, "gate", "--json")
	if err != nil {
		t.Fatalf("gate --json: %v\n%s", err, out)
	}

	var report struct {
		Verdict string `json:"verdict"`
		Results []struct {
			Answer string `json:"answer"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode JSON report: %v\n%s", err, out)
	}
	if report.Verdict != "PASS" {
		t.Errorf("verdict = %q, want PASS", report.Verdict)
	}
	if len(report.Results) != 1 {
		t.Errorf("results = %d, want 1", len(report.Results))
	}
}

func TestGateCmdRecord(t *testing.T) {
	tmpDir := setupE2E(t, map[string]string{"deploy.txt": gateCorpusDoc}, `assertions:
  - query: how do deployments reach production
    require:
      - staging
`)

	if _, err := runRoot(t, "gate", "--record"); err != nil {
		t.Fatalf("gate --record: %v", err)
	}

	baselines := filepath.Join(tmpDir, ".askgate", "baselines.yaml")
	data, err := os.ReadFile(baselines)
	if err != nil {
		t.Fatalf("baselines not written: %v", err)
	}
	if !strings.Contains(string(data), "how do deployments reach production") {
		t.Errorf("baselines missing the recorded query: %s", data)
	}
}

func TestGateCmdMissingAssertions(t *testing.T) {
	tmpDir := setupE2E(t, map[string]string{"deploy.txt": gateCorpusDoc}, "")

	if err := os.Remove(filepath.Join(tmpDir, "assertions.yaml")); err != nil {
		t.Fatalf("remove assertions: %v", err)
	}

	_, err := runRoot(t, "gate")
	if err == nil {
		t.Error("expected error when the assertion file is missing")
	}
}
