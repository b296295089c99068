package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/internal/configloader"
	"github.com/yaklabco/gdasset/internal/ui/pretty"
)

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables gdasset reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			colorMode, err := cmd.Flags().GetString("color")
			if err != nil {
				colorMode = "auto"
			}
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))

			for _, envVar := range configloader.ListEnvVars() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
					styles.Bold.Render(fmt.Sprintf("%-24s", envVar.Name)),
					envVar.Description)
			}
			return nil
		},
	}
}
