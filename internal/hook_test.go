package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookMarker(t *testing.T) {
	script := HookScript("post-commit")
	assert.Contains(t, script, "#!/bin/sh")
	assert.Contains(t, script, HookMarker)
	assert.Contains(t, script, "askgate hook run post-commit")
}

func TestIsManagedHook(t *testing.T) {
	assert.True(t, IsManagedHook(HookScript("post-commit")))
	assert.False(t, IsManagedHook("#!/bin/sh\necho hello"))
	assert.False(t, IsManagedHook(""))
}

func TestFindGitDir(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	found, err := FindGitDir(dir)
	assert.NoError(t, err)
	assert.Equal(t, gitDir, found)

	// walk up from a nested directory
	nested := filepath.Join(dir, "corpus", "guides")
	require.NoError(t, os.MkdirAll(nested, 0755))
	found, err = FindGitDir(nested)
	assert.NoError(t, err)
	assert.Equal(t, gitDir, found)

	// non-git dir
	noGit := t.TempDir()
	_, err = FindGitDir(noGit)
	assert.Error(t, err)
}

// setupHookTestDir creates a temp dir with .git/hooks and returns it.
func setupHookTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "hooks"), 0755))
	return dir
}

// --- InstallHook tests ---

func TestInstallHook(t *testing.T) {
	dir := setupHookTestDir(t)

	hookPath, err := InstallHook(dir, "post-commit", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git", "hooks", "post-commit"), hookPath)

	content, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.True(t, IsManagedHook(string(content)))

	info, err := os.Stat(hookPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "hook must be executable")
}

func TestInstallHook_ExistingHook_NoForce(t *testing.T) {
	dir := setupHookTestDir(t)

	hookPath := filepath.Join(dir, ".git", "hooks", "post-commit")
	require.NoError(t, os.WriteFile(hookPath, []byte("#!/bin/sh\necho existing"), 0755))

	_, err := InstallHook(dir, "post-commit", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInstallHook_ExistingHook_Force(t *testing.T) {
	dir := setupHookTestDir(t)

	hookPath := filepath.Join(dir, ".git", "hooks", "post-commit")
	require.NoError(t, os.WriteFile(hookPath, []byte("#!/bin/sh\necho existing"), 0755))

	_, err := InstallHook(dir, "post-commit", true)
	require.NoError(t, err)

	bakContent, err := os.ReadFile(hookPath + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(bakContent), "echo existing")

	content, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.True(t, IsManagedHook(string(content)))
}

func TestInstallHook_ReinstallManaged(t *testing.T) {
	dir := setupHookTestDir(t)

	_, err := InstallHook(dir, "post-commit", false)
	require.NoError(t, err)

	// Reinstalling over our own hook needs no force and no backup.
	hookPath, err := InstallHook(dir, "post-commit", false)
	require.NoError(t, err)

	_, err = os.Stat(hookPath + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestInstallHook_NoGitRepo(t *testing.T) {
	_, err := InstallHook(t.TempDir(), "post-commit", false)
	assert.Error(t, err)
}

// --- UninstallHook tests ---

func TestUninstallHook(t *testing.T) {
	dir := setupHookTestDir(t)

	hookPath, err := InstallHook(dir, "post-commit", false)
	require.NoError(t, err)

	require.NoError(t, UninstallHook(dir, "post-commit"))

	_, err = os.Stat(hookPath)
	assert.True(t, os.IsNotExist(err))
}

func TestUninstallHook_RestoresBackup(t *testing.T) {
	dir := setupHookTestDir(t)

	hookPath := filepath.Join(dir, ".git", "hooks", "post-commit")
	require.NoError(t, os.WriteFile(hookPath, []byte("#!/bin/sh\necho original"), 0755))

	_, err := InstallHook(dir, "post-commit", true)
	require.NoError(t, err)

	require.NoError(t, UninstallHook(dir, "post-commit"))

	content, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "echo original")

	_, err = os.Stat(hookPath + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestUninstallHook_RefusesUnmanaged(t *testing.T) {
	dir := setupHookTestDir(t)

	hookPath := filepath.Join(dir, ".git", "hooks", "post-commit")
	require.NoError(t, os.WriteFile(hookPath, []byte("#!/bin/sh\necho theirs"), 0755))

	err := UninstallHook(dir, "post-commit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not installed by askgate")

	// The foreign hook is untouched.
	content, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "echo theirs")
}

func TestUninstallHook_MissingHook(t *testing.T) {
	dir := setupHookTestDir(t)
	assert.NoError(t, UninstallHook(dir, "post-commit"))
}

// --- RunUserHook tests ---

func TestRunUserHook_Missing(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	assert.NoError(t, RunUserHook(context.Background(), ws, "post-gate", "test", nil))
}

func TestRunUserHook_NotExecutable(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	require.NoError(t, os.MkdirAll(ws.HooksPath(), 0755))
	script := filepath.Join(ws.HooksPath(), "post-gate")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 1\n"), 0644))

	// Non-executable scripts are skipped, not run.
	assert.NoError(t, RunUserHook(context.Background(), ws, "post-gate", "test", nil))
}

func TestRunUserHook_Environment(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	require.NoError(t, os.MkdirAll(ws.HooksPath(), 0755))

	script := filepath.Join(ws.HooksPath(), "post-gate")
	require.NoError(t, os.WriteFile(script,
		[]byte("#!/bin/sh\nprintf '%s %s' \"$ASKGATE_ROOT\" \"$ASKGATE_VERDICT\" > \"$ASKGATE_STATE/out\"\n"), 0755))

	err := RunUserHook(context.Background(), ws, "post-gate", "test", map[string]string{
		"ASKGATE_VERDICT": "PASS",
	})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(ws.StatePath, "out"))
	require.NoError(t, err)
	assert.Equal(t, ws.Root+" PASS", string(out))
}

func TestRunUserHook_FailureSurfaces(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	require.NoError(t, os.MkdirAll(ws.HooksPath(), 0755))
	script := filepath.Join(ws.HooksPath(), "post-gate")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0755))

	assert.Error(t, RunUserHook(context.Background(), ws, "post-gate", "test", nil))
}
