package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewWatchCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the corpus and rebuild on change",
		Long:  `Watch the corpus for file changes, rebuild the index after each batch of edits, and optionally re-run the gate.`,
		RunE:  makeWatchRunner(version),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	cmd.Flags().Bool("gate", false, "Run the gate after each rebuild")
	return cmd
}

func makeWatchRunner(version string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		withGate, _ := cmd.Flags().GetBool("gate")

		svc, err := loadService(cmd)
		if err != nil {
			return err
		}
		corpus := svc.Workspace().CorpusPath(svc.Config().Corpus)

		if _, err := svc.Rebuild(cmd.Context()); err != nil {
			return fmt.Errorf("initial build: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addWatchDirs(watcher, corpus); err != nil {
			return fmt.Errorf("add watch dirs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", corpus)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event, svc.Workspace().StatePath) {
					continue
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				rebuildAndReport(cmd, svc, withGate, version)
			}
		}
	}
}

func rebuildAndReport(cmd *cobra.Command, svc *internal.Service, withGate bool, version string) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if rev, err := svc.CommitCorpus(ctx, "auto: watch commit"); err == nil && rev != "" {
		fmt.Fprintf(out, "[%s] corpus committed\n", rev[:7])
	}

	info, err := svc.Rebuild(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "rebuild: %v\n", err)
		return
	}
	fmt.Fprintf(out, "rebuilt: %d passages (%s)\n", info.Passages, info.ID)

	if !withGate {
		return
	}

	report, err := svc.RunGate(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "gate: %v\n", err)
		return
	}
	report.Write(out)
	notifyUserHook(cmd, svc, report, version)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func shouldIgnoreEvent(event fsnotify.Event, statePath string) bool {
	if strings.HasPrefix(event.Name, statePath) {
		return true
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}

	return false
}
