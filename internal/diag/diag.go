package diag

import "fmt"

// Location pinpoints a diagnostic to a precise source range.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Offset    int    `json:"offset"`
	EndLine   int    `json:"endLine,omitempty"`
	EndColumn int    `json:"endColumn,omitempty"`
	EndOffset int    `json:"endOffset,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Fixit is a machine-applicable edit: replace the byte range [Offset,
// EndOffset) in File with Replacement.
type Fixit struct {
	File        string `json:"file"`
	Offset      int    `json:"offset"`
	EndOffset   int    `json:"endOffset"`
	Replacement string `json:"replacement"`
	Note        string `json:"note,omitempty"`
}

// Diagnostic is a stable, categorised error record (§3.5).
type Diagnostic struct {
	Code     string      `json:"code"`
	Phase    Phase       `json:"phase"`
	Message  string      `json:"message"`
	Location *Location   `json:"location,omitempty"`
	Found    string      `json:"found,omitempty"`
	Expected string      `json:"expected,omitempty"`
	Details  interface{} `json:"details,omitempty"`
	Fixits   []Fixit     `json:"fixits,omitempty"`
}

// New builds a Diagnostic from a code, phase, and message. The phase is
// recorded as passed; it is not looked up in or checked against the code's
// registry entry.
func New(code string, phase Phase, message string) Diagnostic {
	return Diagnostic{Code: code, Phase: phase, Message: message}
}

// WithLocation attaches a source location.
func (d Diagnostic) WithLocation(loc Location) Diagnostic {
	d.Location = &loc
	return d
}

// WithFoundExpected attaches the found/expected pair used by type and parse
// mismatches.
func (d Diagnostic) WithFoundExpected(found, expected string) Diagnostic {
	d.Found = found
	d.Expected = expected
	return d
}

// WithDetails attaches a structured payload (e.g. a parameter-role table or
// a list of missing pattern shapes).
func (d Diagnostic) WithDetails(details interface{}) Diagnostic {
	d.Details = details
	return d
}

// WithFixits attaches one or more machine-applicable edits.
func (d Diagnostic) WithFixits(fixits ...Fixit) Diagnostic {
	d.Fixits = append(d.Fixits, fixits...)
	return d
}

func (d Diagnostic) Error() string {
	if d.Location != nil {
		return fmt.Sprintf("%s: %s: %s", d.Location, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Err wraps a Diagnostic as a distinguished Go error that bubbles through
// every phase unchanged (§4.1).
type Err struct {
	Diagnostic Diagnostic
}

func (e *Err) Error() string { return e.Diagnostic.Error() }

// AsDiagnostic extracts the Diagnostic from an error produced by this
// package, if any.
func AsDiagnostic(err error) (Diagnostic, bool) {
	if e, ok := err.(*Err); ok {
		return e.Diagnostic, true
	}
	return Diagnostic{}, false
}

// Wrap turns a Diagnostic into an error.
func Wrap(d Diagnostic) error {
	return &Err{Diagnostic: d}
}
