// Package cli provides the Cobra command structure for gdasset.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gdasset command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gdasset",
		Short: "Parse, outline and cross-check Godot asset documents",
		Long: `gdasset reads Godot scene, resource and project files (.tscn, .tres,
project.godot, .import, .cfg) and builds a symbol tree for each document.

It resolves ExtResource and SubResource references against the resource
tables declared in the same document, reports references that point nowhere,
and flags documents whose scan was cut short by an unterminated string.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newOutlineCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newRefsCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newEnvCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
