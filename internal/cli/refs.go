package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdasset/pkg/config"
)

func newRefsCommand() *cobra.Command {
	var cfg config.Config
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "refs RESOURCE [paths...]",
		Short: "List every reference that resolves to a resource path",
		Long: `List the ExtResource and SubResource calls that resolve to RESOURCE.

RESOURCE is matched against the path of each resolved descriptor, for
example res://player.tscn or uid://b8x2. Documents are searched under the
given paths, or the current directory when none are given.

Examples:
  gdasset refs res://art/icon.png
  gdasset refs res://player/player.tscn scenes/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefs(cmd, args[0], args[1:], &cfg, flags)
		},
	}

	addDocumentFlags(cmd, &cfg, flags)

	return cmd
}

func runRefs(cmd *cobra.Command, resource string, paths []string, cfg *config.Config, flags *inspectFlags) error {
	applyDocumentFlags(cmd, cfg, flags)

	sess, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}

	result, err := sess.run(paths)
	if err != nil {
		return err
	}

	styles := sess.styles(cmd)
	out := cmd.OutOrStdout()

	usages := result.ReferencesTo(resource)
	for _, usage := range usages {
		fmt.Fprint(out, styles.FormatUsage(sess.displayPath(usage.Path), usage.Reference))
	}

	if !flags.noSummary {
		if len(usages) == 0 {
			fmt.Fprintln(out, styles.Dim.Render("No references to "+resource))
		} else {
			noun := "references"
			if len(usages) == 1 {
				noun = "reference"
			}
			fmt.Fprintf(out, "%s %s\n",
				styles.SummaryValue.Render(strconv.Itoa(len(usages))),
				styles.SummaryTitle.Render(noun+" to "+resource))
		}
	}

	return nil
}
