// Package repl runs an interactive prompt that evaluates one expression
// per line.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/logrusorgru/aurora/v4"

	"github.com/podhmo/bigrpn"
	"github.com/podhmo/bigrpn/internal/driver"
)

const replHelpMessage = `
Enter an expression in reverse Polish notation, e.g. "2 3 4 + *".
Literals are integers of any size; operators are + - * / %.
Commands are prefixed with a dot. Valid commands are:

.exit     Exit the prompt
.help     Print this help message

Press ^D to exit`

const replAssistanceMessage = `Type '.help' for assistance.`

var operatorDescriptions = map[bigrpn.Operator]string{
	bigrpn.OpAdd: "add",
	bigrpn.OpSub: "subtract",
	bigrpn.OpMul: "multiply",
	bigrpn.OpQuo: "divide, truncating toward zero",
	bigrpn.OpRem: "remainder, sign of the dividend",
}

var commandSuggestions = []prompt.Suggest{
	{Text: ".exit", Description: "Exit the prompt"},
	{Text: ".help", Description: "Print the help message"},
}

// REPL holds the state of one interactive session.
type REPL struct {
	out        io.Writer
	opts       driver.Options
	printer    *driver.Printer
	au         *aurora.Aurora
	lineNumber int
}

func New(out io.Writer, opts driver.Options) *REPL {
	return &REPL{
		out:        out,
		opts:       opts,
		printer:    driver.NewPrinter(out, opts),
		au:         aurora.New(aurora.WithColors(opts.Color)),
		lineNumber: 1,
	}
}

// Run blocks until the user exits with .exit or ^D.
func (r *REPL) Run(version string) {
	fmt.Fprintf(r.out, "Welcome to bigrpn %s!\n%s\n\n", version, replAssistanceMessage)

	prompt.New(
		r.Execute,
		r.Complete,
		prompt.OptionLivePrefix(r.livePrefix),
		prompt.OptionSetExitCheckerOnInput(r.shouldExit),
	).Run()
}

// Execute evaluates one line of input or runs a dot command.
func (r *REPL) Execute(line string) {
	defer func() {
		r.lineNumber++
	}()

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ".") {
		r.handleCommand(trimmed)
		return
	}

	v, err := driver.Evaluate(line, r.opts)
	if printErr := r.printer.Print(driver.Result{Line: r.lineNumber, Input: line, Value: v, Err: err}); printErr != nil {
		fmt.Fprintln(r.out, r.au.Red(printErr.Error()))
	}
}

func (r *REPL) handleCommand(command string) {
	switch command {
	case ".exit":
		// the exit checker ends the prompt loop
	case ".help":
		fmt.Fprintln(r.out, replHelpMessage)
	default:
		fmt.Fprintln(r.out, r.au.Red(fmt.Sprintf("Unknown command. %s", replAssistanceMessage)).Bold().String())
	}
}

// Complete suggests operators, or commands once a '.' has been typed.
func (r *REPL) Complete(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if len(word) == 0 {
		return nil
	}
	if strings.HasPrefix(word, ".") {
		return prompt.FilterHasPrefix(commandSuggestions, word, false)
	}

	suggests := make([]prompt.Suggest, 0, len(bigrpn.Operators))
	for _, op := range bigrpn.Operators {
		suggests = append(suggests, prompt.Suggest{
			Text:        string(op),
			Description: operatorDescriptions[op],
		})
	}
	return prompt.FilterHasPrefix(suggests, word, false)
}

func (r *REPL) livePrefix() (string, bool) {
	return fmt.Sprintf("%d> ", r.lineNumber), true
}

func (r *REPL) shouldExit(in string, breakline bool) bool {
	return breakline && strings.TrimSpace(in) == ".exit"
}
