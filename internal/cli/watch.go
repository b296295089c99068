package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/internal/logging"
	"github.com/yaklabco/gdasset/internal/ui/pretty"
	"github.com/yaklabco/gdasset/internal/watcher"
	"github.com/yaklabco/gdasset/pkg/config"
	"github.com/yaklabco/gdasset/pkg/fsutil"
	"github.com/yaklabco/gdasset/pkg/runner"
)

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-parse asset documents as they change",
		Long: `Parse asset documents, then keep watching them for edits.

Every time a document is written, created or removed, it is dropped from the
cache and parsed again, and a one-line summary is printed for it. Bursts of
events are debounced (watch.debounce in the config file). Stop with Ctrl-C.

Examples:
  gdasset watch
  gdasset watch --debounce 1s scenes/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &cfg, flags)
		},
	}

	addDocumentFlags(cmd, &cfg, flags)
	cmd.Flags().DurationVar(&cfg.Watch.Debounce, "debounce", 0, "quiet period before re-parsing (default 300ms)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, cfg *config.Config, flags *inspectFlags) error {
	applyDocumentFlags(cmd, cfg, flags)

	sess, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}

	opts := sess.runOptions(args)
	styles := sess.styles(cmd)
	out := cmd.OutOrStdout()
	docs := runner.New(nil)

	result, err := docs.Run(sess.ctx, opts)
	if err != nil {
		return exitError(ExitIOError, fmt.Errorf("initial run failed: %w", err))
	}
	for _, file := range result.Files {
		writeDocumentLine(out, styles, sess.displayPath(file.Path), file)
	}
	fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))

	excludes, err := fsutil.CompileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return exitError(ExitConfigError, err)
	}

	extensions := sess.cfg.Extensions
	if len(extensions) == 0 {
		extensions = config.DefaultExtensions()
	}

	w, err := watcher.New(watcher.Options{
		Debounce:   sess.cfg.Watch.Debounce,
		Extensions: extensions,
		BaseDir:    sess.workDir,
		Excludes:   excludes,
		OnChange: func(ctx context.Context, changes []watcher.Change) {
			for _, change := range changes {
				reload(ctx, docs, opts.ProjectRoot, change, out, styles, sess.displayPath(change.Path))
			}
		},
	})
	if err != nil {
		return exitError(ExitInternalError, err)
	}
	defer w.Close()

	roots := watchRoots(sess, args)
	for _, root := range roots {
		if err := w.Add(root); err != nil {
			return exitError(ExitIOError, err)
		}
	}

	logging.FromContext(sess.ctx).Info("watching for changes", logging.FieldPaths, roots)

	return w.Run(sess.ctx)
}

// reload evicts the changed document and parses it again.
func reload(
	ctx context.Context,
	docs *runner.Runner,
	projectRoot string,
	change watcher.Change,
	out io.Writer,
	styles *pretty.Styles,
	display string,
) {
	docPath := runner.ResourcePath(projectRoot, change.Path)
	docs.Forget(docPath)

	if change.Removed {
		fmt.Fprintf(out, "%s: %s\n", styles.FilePath.Render(display), styles.Dim.Render("removed"))
		return
	}

	state, err := docs.Load(ctx, change.Path, docPath)
	writeDocumentLine(out, styles, display, runner.FileOutcome{
		Path:    change.Path,
		DocPath: docPath,
		State:   state,
		Stats:   runner.Summarize(state),
		Error:   err,
	})
}

func writeDocumentLine(out io.Writer, styles *pretty.Styles, display string, file runner.FileOutcome) {
	if file.Error != nil {
		fmt.Fprintf(out, "%s: %s\n", styles.FilePath.Render(display), styles.Error.Render(file.Error.Error()))
		return
	}
	fmt.Fprint(out, styles.FormatDocumentLine(display, file.Stats, file.State.TruncatedAt))
	for _, ref := range file.State.Unresolved() {
		fmt.Fprint(out, "  "+styles.FormatUnresolved(display, ref))
	}
}

// watchRoots returns the directories to watch for paths. Files are watched
// through their parent directory.
func watchRoots(sess *session, paths []string) []string {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var roots []string
	for _, path := range paths {
		root := sess.abs(path)
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		if !slices.Contains(roots, root) {
			roots = append(roots, root)
		}
	}
	return roots
}
