// Package cli provides the Cobra command structure for texoutline.
package cli

import (
	"slices"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/internal/configloader"
	"github.com/yaklabco/texoutline/internal/ui/pretty"
)

// flagGap is the minimum run of spaces pflag puts between a flag and its
// description.
const flagGap = "  "

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ envVars }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{ command .CommandPath }}

{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

// helpRenderer renders help and usage for one invocation. Color is decided
// per call from the --color flag and the command's output.
type helpRenderer struct {
	styles *pretty.Styles
}

func newHelpRenderer(cmd *cobra.Command) *helpRenderer {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	return &helpRenderer{styles: pretty.NewStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))}
}

func (h *helpRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":                 h.styles.SummaryTitle.Render,
		"command":                 h.styles.Section.Render,
		"subcommand":              h.styles.Subsection.Render,
		"dim":                     h.styles.Dim.Render,
		"flags":                   h.flags,
		"envVars":                 h.envVars,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

func (h *helpRenderer) execute(cmd *cobra.Command, text string) error {
	tmpl, err := template.New(cmd.Name()).Funcs(h.funcs()).Parse(text)
	if err != nil {
		return err
	}
	return tmpl.Execute(cmd.OutOrStdout(), cmd)
}

// flags styles pflag usage output line by line. Lines without a
// description are kept as they are.
func (h *helpRenderer) flags(usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		names, desc, ok := strings.Cut(trimmed, flagGap)
		if !ok {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + h.flagNames(names) + "   " + strings.TrimLeft(desc, " ")
	}
	return strings.Join(lines, "\n")
}

// flagNames colors "-o, --output string": flags in one style, the value
// type dimmed.
func (h *helpRenderer) flagNames(names string) string {
	fields := lo.Map(strings.Fields(names), func(field string, _ int) string {
		if !strings.HasPrefix(field, "-") {
			return h.styles.Dim.Render(field)
		}
		if name, found := strings.CutSuffix(field, ","); found {
			return h.styles.Object.Render(name) + ","
		}
		return h.styles.Object.Render(field)
	})
	return strings.Join(fields, " ")
}

// envVars lists the TEXOUTLINE_* variables sorted by name.
func (h *helpRenderer) envVars() string {
	vars := configloader.ListEnvVars()
	names := lo.Keys(vars)
	slices.Sort(names)

	width := len(lo.MaxBy(names, func(a, b string) bool { return len(a) > len(b) }))
	lines := lo.Map(names, func(name string, _ int) string {
		return "  " + h.styles.Object.Render(rpad(name, width)) + "   " + vars[name]
	})
	return strings.Join(lines, "\n")
}

// applyHelp installs the styled help and usage output on root. Subcommands
// inherit both.
func applyHelp(root *cobra.Command) {
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		return newHelpRenderer(cmd).execute(cmd, usageTemplate)
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := newHelpRenderer(cmd).execute(cmd, helpTemplate); err != nil {
			cmd.PrintErrln(err)
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
