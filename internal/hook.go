package internal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const HookMarker = "# askgate: managed post-commit hook"

// HookScript returns the shell shim content for a given hook type. The
// shim calls back into the binary so hook logic stays in Go.
func HookScript(hookType string) string {
	return fmt.Sprintf("#!/bin/sh\n%s\nexec askgate hook run %s \"$@\"\n", HookMarker, hookType)
}

// IsManagedHook checks if the given script content was written by askgate.
func IsManagedHook(content string) bool {
	return strings.Contains(content, HookMarker)
}

// FindGitDir walks up from dir looking for the host repository's .git
// directory.
func FindGitDir(dir string) (string, error) {
	for {
		gitDir := filepath.Join(dir, ".git")
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return gitDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a git repository (no .git found)")
		}
		dir = parent
	}
}

// InstallHook writes the managed shim into the host repository's hooks
// directory. An existing unmanaged hook is only replaced with force, and
// gets backed up first.
func InstallHook(dir, hookType string, force bool) (string, error) {
	gitDir, err := FindGitDir(dir)
	if err != nil {
		return "", err
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, hookType)
	if existing, err := os.ReadFile(hookPath); err == nil {
		if !IsManagedHook(string(existing)) {
			if !force {
				return "", fmt.Errorf("hook already exists at %s (use --force to replace)", hookPath)
			}
			if err := os.WriteFile(hookPath+".bak", existing, 0755); err != nil {
				return "", fmt.Errorf("back up existing hook: %w", err)
			}
		}
	}

	if err := os.WriteFile(hookPath, []byte(HookScript(hookType)), 0755); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}
	return hookPath, nil
}

// UninstallHook removes the managed shim, restoring a backed-up original
// when one exists. Refuses to touch hooks askgate did not write.
func UninstallHook(dir, hookType string) error {
	gitDir, err := FindGitDir(dir)
	if err != nil {
		return err
	}

	hookPath := filepath.Join(gitDir, "hooks", hookType)
	content, err := os.ReadFile(hookPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read hook: %w", err)
	}
	if !IsManagedHook(string(content)) {
		return fmt.Errorf("hook at %s was not installed by askgate", hookPath)
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("remove hook: %w", err)
	}

	bak := hookPath + ".bak"
	if data, err := os.ReadFile(bak); err == nil {
		if err := os.WriteFile(hookPath, data, 0755); err != nil {
			return fmt.Errorf("restore backup: %w", err)
		}
		_ = os.Remove(bak)
	}

	return nil
}

// RunUserHook executes the user script for a hook point when one is
// installed and executable. Missing scripts are not an error.
func RunUserHook(ctx context.Context, ws Workspace, name, version string, extra map[string]string) error {
	path := filepath.Join(ws.HooksPath(), name)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat hook script: %w", err)
	}
	if info.Mode()&0111 == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, path)
	env := os.Environ()
	for k, v := range ws.EnvVars(version) {
		env = append(env, k+"="+v)
	}
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
