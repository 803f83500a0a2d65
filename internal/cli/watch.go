package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// watchCommand creates the watch command, which re-renders on every save.
func (c *CLI) watchCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "watch [schema.dbml]",
		Short: "Re-render a schema whenever it changes",
		Long: `Re-render a schema whenever it changes.

The diagram is rendered once at start and again after each save. If a save
cannot be processed the error is reported and the last good output is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, flags.apply)
			return c.runWatch(cmd.Context(), args[0], flags.output, opts, flags.noCache)
		},
	}

	flags.bind(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sess, err := pipeline.NewSession(runner, opts)
	if err != nil {
		return err
	}

	rebuild := func() {
		p := newProgress(c.Logger)
		text, err := os.ReadFile(input)
		if err != nil {
			printWarning("read %s: %v", input, err)
			return
		}
		if err := sess.Update(ctx, string(text)); err != nil {
			printWarning("keeping previous diagram: %v", err)
			return
		}
		artifacts, err := sess.Render(ctx, opts)
		if err != nil {
			printWarning("keeping previous diagram: %v", err)
			return
		}
		paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
		if err != nil {
			printWarning("%v", err)
			return
		}
		st := sess.State()
		p.done("rendered", "files", paths, "tables", len(st.Graph.Nodes), "refs", len(st.Graph.Edges))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	rebuild()
	printInfo("Watching %s (ctrl+c to stop)", input)
	return watchLoop(ctx, watcher, input, watchDebounce, rebuild, func(err error) {
		c.Logger.Error("watcher error", "error", err)
	})
}

// watchLoop calls rebuild once events touching path have been quiet for
// debounce. It returns when ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, debounce time.Duration, rebuild func(), onErr func(error)) error {
	target := filepath.Clean(path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rebuild()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		}
	}
}
