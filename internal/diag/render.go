package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// RenderMachine renders the envelope as the single-line machine record
// (§6.4). It is a pure function of the envelope: the same envelope always
// renders to the same bytes.
func RenderMachine(e Envelope) (string, error) {
	data, err := e.ToJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RenderHuman renders the envelope for a terminal: command, ok/fail, and,
// for a failed envelope, phase, code, location, message, expected/found,
// and fixits. It does not render an envelope's data payload or a
// diagnostic's details; only RenderMachine carries those.
func RenderHuman(e Envelope) string {
	var b strings.Builder
	if e.OK {
		fmt.Fprintf(&b, "%s %s\n", green("ok"), bold(e.Command))
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s\n", red("error"), bold(e.Command))
	if e.Error == nil {
		return b.String()
	}
	d := *e.Error
	fmt.Fprintf(&b, "  %s %s\n", yellow(string(d.Phase)), d.Code)
	if d.Location != nil {
		fmt.Fprintf(&b, "  at %s\n", d.Location.String())
	}
	fmt.Fprintf(&b, "  %s\n", d.Message)
	if d.Expected != "" || d.Found != "" {
		fmt.Fprintf(&b, "  expected: %s\n  found:    %s\n", d.Expected, d.Found)
	}
	for _, f := range d.Fixits {
		fmt.Fprintf(&b, "  fix: replace %s[%d:%d) with %q", f.File, f.Offset, f.EndOffset, f.Replacement)
		if f.Note != "" {
			fmt.Fprintf(&b, " (%s)", f.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}
