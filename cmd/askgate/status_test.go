package main

import (
	"strings"
	"testing"
)

func TestStatusCmd(t *testing.T) {
	tmpDir := setupE2E(t, map[string]string{
		"a.txt": "First document with a paragraph of reasonable length for indexing.",
		"b.txt": "Second document with another paragraph of reasonable length here.",
	}, "")

	out, err := runRoot(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	if !strings.Contains(out, "Workspace: "+tmpDir) {
		t.Errorf("missing workspace root: %q", out)
	}
	if !strings.Contains(out, "Documents: 2") {
		t.Errorf("missing document count: %q", out)
	}
	if !strings.Contains(out, "Passages:  2") {
		t.Errorf("missing passage count: %q", out)
	}
	if !strings.Contains(out, "Embedder:  hash-v1/256") {
		t.Errorf("missing embedder fingerprint: %q", out)
	}
	if !strings.Contains(out, "Composer:  mock") {
		t.Errorf("missing composer mode: %q", out)
	}
}

func TestStatusCmdEmptyCorpus(t *testing.T) {
	setupE2E(t, nil, "")

	out, err := runRoot(t, "status")
	if err != nil {
		t.Fatalf("status on an empty corpus should still work: %v", out)
	}
	if !strings.Contains(out, "Documents: none") {
		t.Errorf("expected 'Documents: none' for an unloadable corpus, got: %q", out)
	}
}
