package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatcherEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	m, err := NewIgnoreMatcher(tmpDir)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if m.Match(filepath.Join(tmpDir, "anything.txt")) {
		t.Error("empty ignore should not match anything")
	}
}

func TestIgnoreMatcherExactPattern(t *testing.T) {
	tmpDir := t.TempDir()
	ignoreFile := filepath.Join(tmpDir, IgnoreFilename)
	if err := os.WriteFile(ignoreFile, []byte("secret.txt\n"), 0644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := NewIgnoreMatcher(tmpDir)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if !m.Match(filepath.Join(tmpDir, "secret.txt")) {
		t.Error("expected 'secret.txt' to be ignored")
	}
	if m.Match(filepath.Join(tmpDir, "public.txt")) {
		t.Error("expected 'public.txt' to not be ignored")
	}
}

func TestIgnoreMatcherGlobPattern(t *testing.T) {
	tmpDir := t.TempDir()
	ignoreFile := filepath.Join(tmpDir, IgnoreFilename)
	if err := os.WriteFile(ignoreFile, []byte("*.draft.md\n"), 0644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := NewIgnoreMatcher(tmpDir)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if !m.Match(filepath.Join(tmpDir, "notes.draft.md")) {
		t.Error("expected '*.draft.md' pattern to match 'notes.draft.md'")
	}
	if m.Match(filepath.Join(tmpDir, "notes.md")) {
		t.Error("expected '*.draft.md' pattern to not match 'notes.md'")
	}
}

func TestIgnoreMatcherDirPattern(t *testing.T) {
	tmpDir := t.TempDir()
	ignoreFile := filepath.Join(tmpDir, IgnoreFilename)
	if err := os.WriteFile(ignoreFile, []byte("drafts/\n"), 0644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := NewIgnoreMatcher(tmpDir)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if !m.MatchDir(filepath.Join(tmpDir, "drafts")) {
		t.Error("expected 'drafts/' to match the directory")
	}
	if m.MatchDir(filepath.Join(tmpDir, "published")) {
		t.Error("expected 'published' to not be ignored")
	}
}

func TestIgnoreMatcherComments(t *testing.T) {
	tmpDir := t.TempDir()
	ignoreFile := filepath.Join(tmpDir, IgnoreFilename)
	content := "# this is a comment\nsecret.txt\n\n# another comment\n"
	if err := os.WriteFile(ignoreFile, []byte(content), 0644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := NewIgnoreMatcher(tmpDir)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if !m.Match(filepath.Join(tmpDir, "secret.txt")) {
		t.Error("expected 'secret.txt' to be ignored despite comments")
	}
	if m.Match(filepath.Join(tmpDir, "# this is a comment")) {
		t.Error("expected comment not to be a pattern")
	}
}
