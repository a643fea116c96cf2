package help

import (
	"strings"
	"testing"

	"github.com/podhmo/bigrpn/internal/metadata"
)

func TestGenerateHelp_Basic(t *testing.T) {
	cmdMeta := &metadata.CommandMetadata{
		Name:        "calc",
		Description: "Evaluates things.\nSecond line.",
		Subcommands: []*metadata.SubcommandMetadata{
			{Name: "eval", ArgsUsage: "<expr>...", HelpText: "Evaluate each argument"},
			{Name: "repl", HelpText: "Start the prompt"},
		},
		Options: []*metadata.OptionMetadata{
			{
				Name:         "Format",
				CliName:      "format",
				TypeName:     "string",
				HelpText:     "Output format.",
				EnvVar:       "BIGRPN_FORMAT",
				DefaultValue: "text",
				EnumValues:   []any{"text", "json"},
			},
			{
				Name:         "Jobs",
				CliName:      "jobs",
				TypeName:     "int",
				HelpText:     "Parallel workers.",
				EnvVar:       "BIGRPN_JOBS",
				DefaultValue: 1,
			},
			{
				Name:         "Color",
				CliName:      "color",
				TypeName:     "bool",
				HelpText:     "Colorize output.",
				DefaultValue: false,
			},
			{
				Name:         "Verify",
				CliName:      "verify",
				TypeName:     "bool",
				HelpText:     "Verify things.",
				DefaultValue: true, // This will become --no-verify
			},
		},
	}

	helpMsg := GenerateHelp(cmdMeta)

	expected := `calc - Evaluates things.
       Second line.

Usage:
  calc <command> [flags] [args]

Commands:
  eval <expr>...  Evaluate each argument
  repl            Start the prompt

Flags:
  --format    string Output format. (default: "text") (env: BIGRPN_FORMAT) (allowed: "text", "json")
  --jobs      int    Parallel workers. (default: 1) (env: BIGRPN_JOBS)
  --color     bool   Colorize output.
  --no-verify bool   Verify things. (default: true)

  -h, --help        Show this help message and exit
`
	helpMsg = strings.ReplaceAll(helpMsg, "\r\n", "\n")

	if helpMsg != expected {
		t.Errorf("help message mismatch:\n---EXPECTED---\n%s\n\n---ACTUAL---\n%s", expected, helpMsg)
	}
}

func TestGenerateHelp_NoSubcommands(t *testing.T) {
	helpMsg := GenerateHelp(&metadata.CommandMetadata{Name: "x", Description: "y"})
	if strings.Contains(helpMsg, "Commands:") {
		t.Errorf("Expected no Commands section, got: %s", helpMsg)
	}
	if !strings.Contains(helpMsg, "Show this help message and exit") {
		t.Errorf("Expected help flag line, got: %s", helpMsg)
	}
}

func TestGenerateHelp_NilMetadata(t *testing.T) {
	helpMsg := GenerateHelp(nil)
	if !strings.Contains(helpMsg, "<error>") {
		t.Errorf("Expected error message for nil metadata, got: %s", helpMsg)
	}
}
