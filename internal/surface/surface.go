// Package surface enforces the file-level canonical formatting rules that
// gate lexing: no tabs, no bare CR, no trailing whitespace, no runs of blank
// lines, a required terminal newline, and canonical filenames (§4.2).
package surface

import (
	"path/filepath"
	"strings"

	"github.com/sigil-lang/sigilc/internal/diag"
)

// Validate checks raw (already BOM/NFC-normalized) source bytes against the
// surface-form rules. It returns the first violation in source order,
// matching the pipeline's short-circuit propagation policy (§4.1, §7).
func Validate(src []byte, filename string) error {
	if err := ValidateFilename(filename); err != nil {
		return err
	}

	text := string(src)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	// strings.Split on a terminal-newline file produces a trailing "" element;
	// its absence signals a missing terminal newline.
	hasTerminalNewline := len(lines) > 0 && lines[len(lines)-1] == ""
	body := lines
	if hasTerminalNewline {
		body = lines[:len(lines)-1]
	}

	blankRun := 0
	offset := 0
	for i, line := range body {
		lineNo := i + 1
		if idx := strings.IndexByte(line, '\t'); idx >= 0 {
			return diag.Wrap(diag.New(diag.CanonSurfaceTab, diag.PhaseCanon, "tab character in source").
				WithLocation(diag.Location{File: filename, Line: lineNo, Column: idx + 1, Offset: offset + idx}).
				WithFixits(diag.Fixit{File: filename, Offset: offset + idx, EndOffset: offset + idx + 1, Replacement: "  ", Note: "replace tab with two spaces"}))
		}
		if idx := strings.IndexByte(line, '\r'); idx >= 0 {
			return diag.Wrap(diag.New(diag.CanonSurfaceCRLF, diag.PhaseCanon, "carriage return in source").
				WithLocation(diag.Location{File: filename, Line: lineNo, Column: idx + 1, Offset: offset + idx}).
				WithFixits(diag.Fixit{File: filename, Offset: offset + idx, EndOffset: offset + idx + 1, Replacement: "", Note: "use LF line endings"}))
		}
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			return diag.Wrap(diag.New(diag.CanonSurfaceTrailingWS, diag.PhaseCanon, "trailing whitespace").
				WithLocation(diag.Location{File: filename, Line: lineNo, Column: len(trimmed) + 1, Offset: offset + len(trimmed)}).
				WithFixits(diag.Fixit{File: filename, Offset: offset + len(trimmed), EndOffset: offset + len(line), Replacement: "", Note: "trim trailing whitespace"}))
		}
		if line == "" {
			blankRun++
			if blankRun >= 2 {
				return diag.Wrap(diag.New(diag.CanonSurfaceBlankLines, diag.PhaseCanon, "two or more consecutive blank lines").
					WithLocation(diag.Location{File: filename, Line: lineNo, Column: 1, Offset: offset}).
					WithFixits(diag.Fixit{File: filename, Offset: offset, EndOffset: offset + 1, Replacement: "", Note: "remove extra blank line"}))
			}
		} else {
			blankRun = 0
		}
		offset += len(line) + 1
	}

	if !hasTerminalNewline {
		return diag.Wrap(diag.New(diag.CanonSurfaceMissingNewline, diag.PhaseCanon, "file does not end with a newline").
			WithLocation(diag.Location{File: filename, Line: len(body), Column: len(body[len(body)-1]) + 1, Offset: len(text)}).
			WithFixits(diag.Fixit{File: filename, Offset: len(text), EndOffset: len(text), Replacement: "\n", Note: "append terminal newline"}))
	}

	return nil
}

// ValidateFilename enforces the lowercase-with-hyphens filename rule (§6.1):
// no uppercase, underscores, spaces, or doubled/edge hyphens in the base
// name (extension excluded).
func ValidateFilename(path string) error {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	bad := func(reason string) error {
		return diag.Wrap(diag.New(diag.CanonSurfaceFilename, diag.PhaseCanon, "illegal filename: "+reason).
			WithLocation(diag.Location{File: path, Line: 1, Column: 1, Offset: 0}).
			WithFoundExpected(base, "lowercase-with-hyphens"))
	}

	if stem == "" {
		return bad("empty filename stem")
	}
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return bad("contains character outside [a-z0-9-]")
		}
	}
	if stem[0] == '-' || stem[len(stem)-1] == '-' {
		return bad("leading or trailing hyphen")
	}
	if strings.Contains(stem, "--") {
		return bad("consecutive hyphens")
	}
	return nil
}

// TestFileKind reports whether the file, by canonical directory
// convention, lives in the project's tests/ subtree — a cross-check that
// must run after parsing, once a project layout is known (§4.5).
func TestFileKind(projectRelPath, testsDir string) bool {
	rel := filepath.ToSlash(projectRelPath)
	prefix := filepath.ToSlash(testsDir) + "/"
	return strings.HasPrefix(rel, prefix)
}
