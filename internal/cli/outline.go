package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/pkg/config"
)

func newOutlineCommand() *cobra.Command {
	var cfg config.Config
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "outline [paths...]",
		Short: "Print the symbol tree of asset documents",
		Long: `Print the symbol tree of each asset document as an indented outline.

Sections are always shown. Use --properties to include the properties of
each section and --ranges to append the source range of every symbol.

Examples:
  gdasset outline main.tscn
  gdasset outline --properties --ranges player.tscn`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Format = config.FormatText
			flags.outline = true
			return runInspect(cmd, args, &cfg, flags)
		},
	}

	addDocumentFlags(cmd, &cfg, flags)

	return cmd
}
