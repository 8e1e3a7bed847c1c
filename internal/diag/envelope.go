package diag

import "github.com/sigil-lang/sigilc/internal/schema"

// Envelope is the uniform wire record returned by every top-level command
// (§3.5, §6.4). FormatVersion is always 1 for this compiler generation.
type Envelope struct {
	FormatVersion int         `json:"formatVersion"`
	Command       string      `json:"command"`
	OK            bool        `json:"ok"`
	Phase         Phase       `json:"phase,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	Error         *Diagnostic `json:"error,omitempty"`
}

// OKEnvelope builds a successful envelope carrying phase-specific data.
func OKEnvelope(command string, data interface{}) Envelope {
	return Envelope{FormatVersion: 1, Command: command, OK: true, Data: data}
}

// ErrEnvelope builds a failed envelope from a Diagnostic; Phase is copied
// from the diagnostic so the caller does not have to repeat it.
func ErrEnvelope(command string, d Diagnostic) Envelope {
	return Envelope{FormatVersion: 1, Command: command, OK: false, Phase: d.Phase, Error: &d}
}

// ToJSON renders the envelope as a single-line deterministic record —
// the wire format promised by §6.4. Callers that want pretty output should
// use RenderMachine/RenderHuman in render.go instead of calling this
// directly for display purposes.
func (e Envelope) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(e)
	if err != nil {
		return nil, err
	}
	prevCompact := schema.CompactMode
	schema.SetCompactMode(true)
	defer schema.SetCompactMode(prevCompact)
	return schema.FormatJSON(data)
}
