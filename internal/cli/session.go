package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/internal/configloader"
	"github.com/yaklabco/gdasset/internal/logging"
	"github.com/yaklabco/gdasset/internal/ui/pretty"
	"github.com/yaklabco/gdasset/pkg/config"
	"github.com/yaklabco/gdasset/pkg/runner"
)

// session is the resolved environment shared by the document commands.
type session struct {
	ctx         context.Context
	cfg         *config.Config
	workDir     string
	projectRoot string
	color       string
}

// newSession loads configuration for cmd, with cliCfg taking precedence
// over files and environment.
func newSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, exitError(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, exitError(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	cfg := loadResult.Config
	if !cmd.Flags().Changed("debug") {
		logging.SetLevel(cfg.LogLevel)
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	s := &session{
		ctx:     ctx,
		cfg:     cfg,
		workDir: workDir,
		color:   colorMode,
	}
	if loadResult.Paths != nil {
		s.projectRoot = loadResult.Paths.ProjectRoot
	}
	return s, nil
}

// rootFor returns the project root for documents under path. It prefers the
// root discovered from the working directory and falls back to searching
// upward from path itself.
func (s *session) rootFor(path string) string {
	if s.projectRoot != "" {
		return s.projectRoot
	}
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	root, err := configloader.FindProjectRoot(s.ctx, dir)
	if err != nil {
		return ""
	}
	return root
}

// runOptions builds runner options for paths.
func (s *session) runOptions(paths []string) runner.Options {
	opts := runner.OptionsFromConfig(s.cfg, paths)
	opts.WorkingDir = s.workDir
	opts.ProjectRoot = s.projectRoot
	if opts.ProjectRoot == "" && len(paths) > 0 {
		opts.ProjectRoot = s.rootFor(s.abs(paths[0]))
	}
	return opts
}

func (s *session) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.workDir, path)
}

// displayPath makes path relative to the working directory when it is below it.
func (s *session) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(s.workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func (s *session) styles(cmd *cobra.Command) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(s.color, cmd.OutOrStdout()))
}
