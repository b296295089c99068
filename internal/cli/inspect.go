package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/internal/logging"
	"github.com/yaklabco/gdasset/pkg/config"
	"github.com/yaklabco/gdasset/pkg/reporter"
	"github.com/yaklabco/gdasset/pkg/runner"
)

type inspectFlags struct {
	format     string
	ignore     []string
	extensions []string
	outline    bool
	ranges     bool
	compact    bool
	noSummary  bool
	strict     bool
}

func newInspectCommand() *cobra.Command {
	var cfg config.Config
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [paths...]",
		Short: "Parse asset documents and report unresolved references",
		Long:  inspectLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, &cfg, flags)
		},
	}

	addDocumentFlags(cmd, &cfg, flags)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().BoolVar(&flags.outline, "outline", false, "print each document's symbol tree")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when a document is truncated")

	return cmd
}

const inspectLongDescription = `Parse asset documents and report what was found.

By default, inspects every .tscn, .tres, .godot, .import and .cfg file in the
current directory and subdirectories. Each document is scanned into a symbol
tree and every ExtResource/SubResource call is resolved against the resource
tables of its own document.

The command exits with status 1 when any reference is unresolved.

Examples:
  gdasset inspect                     # Inspect the current directory
  gdasset inspect scenes/             # Inspect one directory
  gdasset inspect --format table      # One row per document
  gdasset inspect --format json       # Machine-readable output
  gdasset inspect --strict            # Also fail on unterminated strings`

// addDocumentFlags registers the flags shared by commands that run over a
// set of documents.
func addDocumentFlags(cmd *cobra.Command, cfg *config.Config, flags *inspectFlags) {
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "asset file extensions to scan")
	cmd.Flags().BoolVar(&cfg.FollowSymlinks, "follow-symlinks", false, "traverse directory symlinks")
	cmd.Flags().BoolVar(&cfg.Details, "properties", false, "include property symbols in outlines")
	cmd.Flags().BoolVar(&flags.ranges, "ranges", false, "show symbol ranges in outlines")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the summary line")
}

// applyDocumentFlags copies string-typed flags onto cfg. Only flags that
// were explicitly set override configuration files.
func applyDocumentFlags(cmd *cobra.Command, cfg *config.Config, flags *inspectFlags) {
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
}

func runInspect(cmd *cobra.Command, args []string, cfg *config.Config, flags *inspectFlags) error {
	applyDocumentFlags(cmd, cfg, flags)

	sess, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}

	result, err := sess.run(args)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(sess.cfg.Format))
	if err != nil {
		return exitError(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       sess.color,
		Outline:     flags.outline,
		Properties:  sess.cfg.Details,
		Ranges:      flags.ranges,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		logging.FromContext(sess.ctx).Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return ResultError(result, flags.strict)
}

// run parses every document under paths through a fresh runner.
func (s *session) run(paths []string) (*runner.Result, error) {
	opts := s.runOptions(paths)

	logging.FromContext(s.ctx).Debug("starting run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := runner.New(nil).Run(s.ctx, opts)
	if err != nil {
		return nil, exitError(ExitIOError, fmt.Errorf("run failed: %w", err))
	}
	return result, nil
}
