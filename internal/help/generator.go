package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/podhmo/bigrpn/internal/metadata"
)

// GenerateHelp renders a help message for the command described by cmdMeta.
func GenerateHelp(cmdMeta *metadata.CommandMetadata) string {
	if cmdMeta == nil {
		return "<error>" // Handle nil case gracefully
	}

	var sb strings.Builder
	generateHelp(&sb, cmdMeta)
	return sb.String()
}

func generateHelp(w io.Writer, cmdMeta *metadata.CommandMetadata) {
	fmt.Fprintf(w, "%s - %s\n\n", cmdMeta.Name, strings.ReplaceAll(cmdMeta.Description, "\n", "\n"+strings.Repeat(" ", len(cmdMeta.Name)+3)))
	fmt.Fprintf(w, "Usage:\n  %s <command> [flags] [args]\n\n", cmdMeta.Name)

	if len(cmdMeta.Subcommands) > 0 {
		fmt.Fprintln(w, "Commands:")
		maxSubLen := 0
		for _, sub := range cmdMeta.Subcommands {
			if l := len(subcommandUsage(sub)); l > maxSubLen {
				maxSubLen = l
			}
		}
		for _, sub := range cmdMeta.Subcommands {
			fmt.Fprintf(w, "  %-*s  %s\n", maxSubLen, subcommandUsage(sub), sub.HelpText)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Flags:")

	// Find max length of option names for alignment (include -h, --help)
	maxNameLen := len("h, --help")
	for _, opt := range cmdMeta.Options {
		if l := len(displayName(opt)); l > maxNameLen {
			maxNameLen = l
		}
	}

	for _, opt := range cmdMeta.Options {
		typeIndicator := strings.ToLower(opt.TypeName)
		helpText := strings.ReplaceAll(opt.HelpText, "\n", "\n"+strings.Repeat(" ", maxNameLen+15))
		fmt.Fprintf(w, "  --%-*s %-6s %s", maxNameLen, displayName(opt), typeIndicator, helpText)
		if opt.DefaultValue != nil && opt.DefaultValue != "" && opt.DefaultValue != false && opt.DefaultValue != 0 {
			if s, ok := opt.DefaultValue.(string); ok {
				fmt.Fprintf(w, " (default: %q)", s)
			} else {
				fmt.Fprintf(w, " (default: %v)", opt.DefaultValue)
			}
		}
		if opt.EnvVar != "" {
			fmt.Fprintf(w, " (env: %s)", opt.EnvVar)
		}
		if len(opt.EnumValues) > 0 {
			var enumStrs []string
			for _, v := range opt.EnumValues {
				if s, ok := v.(string); ok {
					enumStrs = append(enumStrs, fmt.Sprintf("%q", s))
				} else {
					enumStrs = append(enumStrs, fmt.Sprintf("%v", v))
				}
			}
			fmt.Fprintf(w, " (allowed: %s)", strings.Join(enumStrs, ", "))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  -%-*s %-6s %s\n", maxNameLen, "h, --help", "", "Show this help message and exit")
}

func subcommandUsage(sub *metadata.SubcommandMetadata) string {
	if sub.ArgsUsage == "" {
		return sub.Name
	}
	return sub.Name + " " + sub.ArgsUsage
}

// displayName turns a bool flag that defaults to true into its --no- form.
func displayName(opt *metadata.OptionMetadata) string {
	if opt.TypeName == "bool" && opt.DefaultValueAsBool() {
		return "no-" + opt.CliName
	}
	return opt.CliName
}
