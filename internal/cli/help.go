package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gdasset/internal/configloader"
	"github.com/yaklabco/gdasset/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
			Dim:         plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders Cobra help with HelpStyles. The color mode is read
// from the parsed --color flag when help is rendered, falling back to the
// mode given at construction.
type HelpFormatter struct {
	colorMode string
}

// NewHelpFormatter creates a help formatter with a fallback color mode.
func NewHelpFormatter(colorMode string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

// StylesFor returns the styles for rendering cmd's help to writer.
func (h *HelpFormatter) StylesFor(cmd *cobra.Command, writer io.Writer) *HelpStyles {
	mode := h.colorMode
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		mode = flag.Value.String()
	} else if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil && flag.Changed {
		mode = flag.Value.String()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, writer))
}

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ description .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ environment }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

func templateFuncs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"command":                 styles.Command.Render,
		"heading":                 styles.Heading.Render,
		"subcommand":              styles.Subcommand.Render,
		"description":             styles.Description.Render,
		"example":                 styles.Example.Render,
		"dim":                     styles.Dim.Render,
		"flags":                   styles.flagUsages,
		"environment":             styles.environment,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// flagUsages styles pflag's usage block line by line.
func (styles *HelpStyles) flagUsages(flags *pflag.FlagSet) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = styles.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

// flagLine styles "  -f, --flag type   description". The flag part ends at
// the first run of two or more spaces.
func (styles *HelpStyles) flagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	idx := strings.Index(trimmed, "  ")
	if idx < 0 {
		return line
	}
	flagPart := trimmed[:idx]
	desc := strings.TrimLeft(trimmed[idx:], " ")

	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			name, comma := strings.CutSuffix(token, ",")
			tokens[i] = styles.Flag.Render(name)
			if comma {
				tokens[i] += ","
			}
			continue
		}
		tokens[i] = styles.Dim.Render(token)
	}

	return indent + strings.Join(tokens, " ") + "   " + styles.Description.Render(desc)
}

func (styles *HelpStyles) environment() string {
	vars := configloader.ListEnvVars()
	lines := make([]string, 0, len(vars))
	for _, envVar := range vars {
		lines = append(lines, "  "+styles.Flag.Render(rpad(envVar.Name, 24))+" "+envVar.Description)
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled templates on cmd. Subcommands inherit
// the usage and help functions.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(name, text string, command *cobra.Command) error {
		out := command.OutOrStdout()
		tmpl, err := template.New(name).Funcs(templateFuncs(h.StylesFor(command, out))).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		if err := tmpl.Execute(out, command); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return nil
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render("usage", usageTemplate, command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render("help", helpTemplate, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
