package main

import (
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.0.0")

	if cmd == nil {
		t.Fatal("NewRootCmd returned nil")
	}

	if cmd.Use != "askgate" {
		t.Errorf("expected Use='askgate', got %q", cmd.Use)
	}

	if cmd.Version != "1.0.0" {
		t.Errorf("expected Version='1.0.0', got %q", cmd.Version)
	}
}

func TestRootCmdHasFlags(t *testing.T) {
	cmd := NewRootCmd("1.0.0")

	flags := []string{"mode", "corpus", "json"}
	for _, name := range flags {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			t.Errorf("expected persistent flag %q to exist", name)
		}
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd("1.0.0")

	want := []string{"init", "ask", "index", "gate", "serve", "watch", "status", "log", "revert", "provider", "install", "uninstall"}
	have := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("expected subcommand %q to exist", name)
		}
	}
}

func TestRootCmdVersion(t *testing.T) {
	versions := []string{"dev", "1.0.0", "2.3.4-beta"}

	for _, v := range versions {
		cmd := NewRootCmd(v)
		if cmd.Version != v {
			t.Errorf("expected version %q, got %q", v, cmd.Version)
		}
	}
}
