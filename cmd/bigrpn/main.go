package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/podhmo/bigrpn/internal/config"
	"github.com/podhmo/bigrpn/internal/driver"
	"github.com/podhmo/bigrpn/internal/help"
	"github.com/podhmo/bigrpn/internal/loader"
	"github.com/podhmo/bigrpn/internal/metadata"
	"github.com/podhmo/bigrpn/internal/repl"
	"github.com/podhmo/bigrpn/internal/utils/stringutils"
)

// Version is shown in the REPL banner. Set with -ldflags "-X main.Version=...".
var Version = "v0.1.0"

// configOptionName is the option that names a YAML file rather than a Config field.
const configOptionName = "Config"

// app holds the process environment so that tests can substitute it.
type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	lookupEnv  func(string) (string, bool)
	isTerminal func() bool
}

func main() {
	// debug mode: if DEBUG environment variable is set, enable debug logging
	if _, ok := os.LookupEnv("DEBUG"); ok {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func commandMetadata() *metadata.CommandMetadata {
	defaults := config.Default()
	cmd := &metadata.CommandMetadata{
		Name: "bigrpn",
		Description: "Evaluate reverse Polish notation expressions over integers of any size.\n" +
			"Each input line is one expression; failures are reported and evaluation continues.",
		Subcommands: []*metadata.SubcommandMetadata{
			{Name: "eval", ArgsUsage: "<expr>...", HelpText: "Evaluate each argument as one expression"},
			{Name: "run", ArgsUsage: "[file|glob|-]...", HelpText: "Evaluate every line of the given sources (default: stdin)"},
			{Name: "repl", HelpText: "Start an interactive prompt (default when stdin is a terminal)"},
			{Name: "help", HelpText: "Show this help message"},
		},
		Options: []*metadata.OptionMetadata{
			{Name: configOptionName, TypeName: "string", HelpText: "Path to a YAML configuration file"},
			{
				Name: "Format", TypeName: "string", HelpText: "Output format",
				DefaultValue: defaults.Format, EnumValues: []any{config.FormatText, config.FormatJSON},
			},
			{Name: "Color", TypeName: "bool", HelpText: "Colorize values and errors", DefaultValue: defaults.Color},
			{
				Name: "Jobs", TypeName: "int", DefaultValue: defaults.Jobs,
				HelpText: "Number of lines evaluated concurrently.\nAbove 1, output is written per batch of jobs*64 lines, not per line",
			},
			{Name: "MaxTokens", TypeName: "int", HelpText: "Reject lines with more tokens than this, 0 for no limit", DefaultValue: defaults.MaxTokens},
			{Name: "MaxDigits", TypeName: "int", HelpText: "Reject literals with more digits than this, 0 for no limit", DefaultValue: defaults.MaxDigits},
			{Name: "FailOnError", TypeName: "bool", HelpText: "Exit with status 1 if any expression fails", DefaultValue: defaults.FailOnError},
		},
	}
	for _, opt := range cmd.Options {
		opt.CliName = stringutils.ToKebabCase(opt.Name)
		opt.EnvVar = config.EnvVar(opt.Name)
	}
	return cmd
}

// run dispatches to a subcommand and returns the process exit status.
func (a *app) run(ctx context.Context, args []string) int {
	meta := commandMetadata()

	var name string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	} else if a.isTerminal != nil && a.isTerminal() {
		name = "repl"
	} else {
		name = "run"
	}

	if name == "help" {
		fmt.Fprint(a.stdout, help.GenerateHelp(meta))
		return 0
	}
	if meta.Lookup(name) == nil {
		fmt.Fprintf(a.stderr, "Error: Unknown subcommand '%s'\n", name)
		fmt.Fprintln(a.stderr, "Run 'bigrpn help' for usage.")
		return 2
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprint(a.stderr, help.GenerateHelp(meta))
	}
	registerFlags(fs, meta)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2 // flag has already reported the error
	}

	cfg, err := a.loadConfig(meta, fs)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	opts := driver.OptionsFromConfig(cfg)
	slog.DebugContext(ctx, "configuration loaded", "command", name, "config", cfg)

	var stats driver.Stats
	switch name {
	case "eval":
		if fs.NArg() < 1 {
			fmt.Fprintln(a.stderr, "Error: at least one expression must be specified for eval.")
			return 2
		}
		stats, err = driver.RunExpressions(ctx, fs.Args(), a.stdout, opts)
	case "run":
		stats, err = a.runSources(ctx, fs.Args(), opts)
	case "repl":
		if fs.NArg() > 0 {
			fmt.Fprintln(a.stderr, "Error: repl takes no arguments.")
			return 2
		}
		repl.New(a.stdout, opts).Run(Version)
		return 0
	}
	if err != nil {
		slog.ErrorContext(ctx, "Error running bigrpn", "command", name, "error", err)
		return 1
	}

	slog.DebugContext(ctx, "finished", "command", name, "lines", stats.Lines, "failures", stats.Failures)
	if cfg.FailOnError && stats.Failures > 0 {
		return 1
	}
	return 0
}

// negatedPrefix marks the flag registered for a bool option that defaults
// to true; the help generator shows it under the same name.
const negatedPrefix = "no-"

// registerFlags defines one flag per option. Only flags set on the command
// line are applied, so registered defaults do not matter beyond -h.
func registerFlags(fs *flag.FlagSet, meta *metadata.CommandMetadata) {
	for _, opt := range meta.Options {
		switch opt.TypeName {
		case "bool":
			if opt.DefaultValueAsBool() {
				fs.Bool(negatedPrefix+opt.CliName, false, opt.HelpText)
			} else {
				fs.Bool(opt.CliName, false, opt.HelpText)
			}
		case "int":
			fs.Int(opt.CliName, 0, opt.HelpText)
		default:
			fs.String(opt.CliName, "", opt.HelpText)
		}
	}
}

// lookupFlag maps a parsed flag back to its option and the value to store,
// inverting --no-<name> bools.
func lookupFlag(meta *metadata.CommandMetadata, f *flag.Flag) (*metadata.OptionMetadata, string, error) {
	value := f.Value.String()
	if opt := meta.LookupOption(f.Name); opt != nil {
		return opt, value, nil
	}
	name, ok := strings.CutPrefix(f.Name, negatedPrefix)
	if !ok {
		return nil, "", nil
	}
	opt := meta.LookupOption(name)
	if opt == nil || opt.TypeName != "bool" {
		return nil, "", nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, "", err
	}
	return opt, strconv.FormatBool(!b), nil
}

// loadConfig layers defaults, the YAML file, the environment, and the flags
// that were set explicitly, in that order, and validates the result.
func (a *app) loadConfig(meta *metadata.CommandMetadata, fs *flag.FlagSet) (*config.Config, error) {
	path := fs.Lookup(stringutils.ToKebabCase(configOptionName)).Value.String()
	if path == "" && a.lookupEnv != nil {
		path, _ = a.lookupEnv(config.EnvVar(configOptionName))
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if a.lookupEnv != nil {
		if err := cfg.ApplyEnv(a.lookupEnv); err != nil {
			return nil, err
		}
	}

	var errs []error
	fs.Visit(func(f *flag.Flag) {
		opt, value, err := lookupFlag(meta, f)
		if err == nil && (opt == nil || opt.Name == configOptionName) {
			return
		}
		if err == nil {
			err = cfg.Set(opt.Name, value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid --%s=%q: %w", f.Name, f.Value.String(), err))
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runSources evaluates every source in argument order. Line numbers restart
// at 1 for each source.
func (a *app) runSources(ctx context.Context, args []string, opts driver.Options) (driver.Stats, error) {
	sources, err := loader.Resolve(args, a.stdin)
	if err != nil {
		return driver.Stats{}, err
	}

	var total driver.Stats
	for _, src := range sources {
		stats, err := runSource(ctx, src, a.stdout, opts)
		total.Lines += stats.Lines
		total.Failures += stats.Failures
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func runSource(ctx context.Context, src loader.Source, w io.Writer, opts driver.Options) (driver.Stats, error) {
	rc, err := src.Open()
	if err != nil {
		return driver.Stats{}, err
	}
	defer rc.Close()

	slog.DebugContext(ctx, "evaluating source", "source", src.Name)
	stats, err := driver.Run(ctx, rc, w, opts)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", src.Name, err)
	}
	return stats, nil
}
