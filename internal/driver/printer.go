package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/logrusorgru/aurora/v4"

	"github.com/podhmo/bigrpn"
	"github.com/podhmo/bigrpn/internal/config"
)

// Printer writes results in the configured format.
type Printer struct {
	w      io.Writer
	format string
	au     *aurora.Aurora
	enc    *json.Encoder
}

func NewPrinter(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:      w,
		format: opts.Format,
		au:     aurora.New(aurora.WithColors(opts.Color)),
	}
	if p.format == config.FormatJSON {
		p.enc = json.NewEncoder(w)
	}
	return p
}

type record struct {
	Line    int            `json:"line"`
	Input   string         `json:"input"`
	Result  *bigrpn.BigNum `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Print writes one result: "= <value>" or the error name in text format,
// one JSON object per line in json format.
func (p *Printer) Print(r Result) error {
	if p.enc != nil {
		rec := record{Line: r.Line, Input: r.Input, Result: r.Value}
		if r.Err != nil {
			rec.Error = ErrorName(r.Err)
			rec.Message = r.Err.Error()
		}
		return p.enc.Encode(rec)
	}

	var err error
	if r.Err != nil {
		_, err = fmt.Fprintln(p.w, p.FormatError(r.Err))
	} else {
		_, err = fmt.Fprintln(p.w, p.FormatValue(r.Value))
	}
	return err
}

// FormatValue renders a successful result as "= <decimal>".
func (p *Printer) FormatValue(v *bigrpn.BigNum) string {
	return "= " + p.au.Yellow(v.String()).String()
}

// FormatError renders the name of the error's kind.
func (p *Printer) FormatError(err error) string {
	return p.au.Red(ErrorName(err)).Bold().String()
}

// ErrorName returns the name printed for err: the evaluator's kind name,
// or LimitExceededName for lines rejected by the driver.
func ErrorName(err error) string {
	var limitErr *LimitError
	if errors.As(err, &limitErr) {
		return LimitExceededName
	}
	kind, _ := bigrpn.KindOf(err)
	return kind.String()
}
