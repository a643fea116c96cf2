package metadata

// CommandMetadata holds everything needed to render help for a command
// and to register its flags.
type CommandMetadata struct {
	Name        string // Name of the command (e.g., "bigrpn")
	Description string // Overall help description for the command
	Subcommands []*SubcommandMetadata
	Options     []*OptionMetadata
}

// SubcommandMetadata describes one subcommand such as "eval" or "run".
type SubcommandMetadata struct {
	Name      string // e.g. "run"
	ArgsUsage string // Placeholder for positional arguments (e.g., "[file|glob|-]...")
	HelpText  string
}

// OptionMetadata holds information about a single command-line option.
type OptionMetadata struct {
	Name         string // Original field name in config.Config (e.g., "MaxTokens")
	CliName      string // CLI flag name (e.g., "max-tokens")
	TypeName     string // Go type of the field (e.g., "string", "int", "bool")
	HelpText     string // Description for the option
	EnvVar       string // Environment variable name to read from
	DefaultValue any    // Default value
	EnumValues   []any  // Allowed values, if restricted
}

// DefaultValueAsBool checks if the DefaultValue is a boolean and true.
func (om *OptionMetadata) DefaultValueAsBool() bool {
	if b, ok := om.DefaultValue.(bool); ok {
		return b
	}
	return false
}

// Lookup returns the subcommand with the given name, or nil.
func (cm *CommandMetadata) Lookup(name string) *SubcommandMetadata {
	for _, sub := range cm.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// LookupOption returns the option registered under the given CLI flag name, or nil.
func (cm *CommandMetadata) LookupOption(cliName string) *OptionMetadata {
	for _, opt := range cm.Options {
		if opt.CliName == cliName {
			return opt
		}
	}
	return nil
}
