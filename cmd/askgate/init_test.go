package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestInitCmd(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	statePath := filepath.Join(tmpDir, ".askgate")
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		t.Error(".askgate directory not created")
	}

	configPath := filepath.Join(statePath, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config.yaml not created")
	}

	corpusPath := filepath.Join(tmpDir, "corpus")
	if _, err := os.Stat(corpusPath); os.IsNotExist(err) {
		t.Error("corpus directory not created")
	}

	assertionsPath := filepath.Join(tmpDir, "assertions.yaml")
	if _, err := os.Stat(assertionsPath); os.IsNotExist(err) {
		t.Error("assertions.yaml not created")
	}

	hooksPath := filepath.Join(statePath, "hooks")
	if _, err := os.Stat(hooksPath); os.IsNotExist(err) {
		t.Error("hooks directory not created")
	}
}

func TestInitCmdAlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	statePath := filepath.Join(tmpDir, ".askgate")
	if err := os.MkdirAll(statePath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for already initialized")
	}
}

func TestInitCmdHistory(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"--history"})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	gitPath := filepath.Join(tmpDir, ".askgate", "git")
	if _, err := os.Stat(gitPath); os.IsNotExist(err) {
		t.Error("git storage not created with --history")
	}
}
