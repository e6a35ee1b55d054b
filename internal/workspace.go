package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

const StateDirName = ".askgate"

// Workspace is a directory askgate operates in. The corpus lives under
// Root, everything derived (config, git storage, baselines) under
// Root/.askgate.
type Workspace struct {
	Root      string
	StatePath string
}

func NewWorkspace(root string) Workspace {
	return Workspace{
		Root:      root,
		StatePath: filepath.Join(root, StateDirName),
	}
}

func (w Workspace) ConfigPath() string {
	return filepath.Join(w.StatePath, "config.yaml")
}

func (w Workspace) GitPath() string {
	return filepath.Join(w.StatePath, "git")
}

func (w Workspace) BaselinePath() string {
	return filepath.Join(w.StatePath, "baselines.yaml")
}

func (w Workspace) HooksPath() string {
	return filepath.Join(w.StatePath, "hooks")
}

// AssertionsPath resolves a gate assertion file path against the workspace
// root; absolute paths pass through untouched.
func (w Workspace) AssertionsPath(configured string) string {
	if configured == "" {
		configured = "assertions.yaml"
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(w.Root, configured)
}

// CorpusPath resolves the configured corpus location the same way.
func (w Workspace) CorpusPath(configured string) string {
	if configured == "" {
		configured = "corpus"
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(w.Root, configured)
}

// FindWorkspace walks from dir toward the filesystem root looking for a
// .askgate state directory.
func FindWorkspace(dir string) (Workspace, bool) {
	for {
		statePath := filepath.Join(dir, StateDirName)
		if info, err := os.Stat(statePath); err == nil && info.IsDir() {
			return Workspace{Root: dir, StatePath: statePath}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Workspace{}, false
		}
		dir = parent
	}
}

// CurrentWorkspace resolves the workspace enclosing the working directory.
func CurrentWorkspace() (Workspace, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Workspace{}, fmt.Errorf("get working directory: %w", err)
	}
	ws, ok := FindWorkspace(cwd)
	if !ok {
		return Workspace{}, fmt.Errorf("%s: %w", cwd, ErrNotInitialized)
	}
	return ws, nil
}

// EnvVars is the environment handed to hook scripts.
func (w Workspace) EnvVars(version string) map[string]string {
	bin, _ := os.Executable()
	return map[string]string{
		"ASKGATE_ROOT":    w.Root,
		"ASKGATE_STATE":   w.StatePath,
		"ASKGATE_CONFIG":  w.ConfigPath(),
		"ASKGATE_VERSION": version,
		"ASKGATE_BIN":     bin,
	}
}
