// Package command implements the command surface (C10, §4.10): five
// top-level operations — tokenise, parse, compile, compile-and-run, and
// compile-tests — each returning a diag.Envelope (§6.4), the uniform
// wire record every caller (a CLI shell, a test harness, an editor
// integration) consumes without needing to know the pipeline's internals.
//
// Grounded on the teacher's cmd/ailang/main.go command dispatch (run/test/
// check/repl), generalised from direct stdout printing to envelope values a
// thin shell renders; the per-module compile pipeline is grounded on
// internal/module (C8) and internal/codegen (C9), which this package only
// orchestrates and writes to disk.
package command

import (
	"os"
	"path/filepath"

	"github.com/sigil-lang/sigilc/internal/codegen"
	"github.com/sigil-lang/sigilc/internal/config"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
	"github.com/sigil-lang/sigilc/internal/module"
	"github.com/sigil-lang/sigilc/internal/surface"
)

// targetExt is the extension the code generator's TypeScript-shaped output
// is written under (§6.6 generated output layout).
const targetExt = ".ts"

// moduleOutput names one generated file alongside the source it came from.
type moduleOutput struct {
	ModuleID   string `json:"moduleId"`
	SourceFile string `json:"sourceFile"`
	OutputFile string `json:"outputFile"`
}

// projectInfo is the optional `project` envelope field: enough of the
// resolved project marker for a caller to understand where outputs landed.
type projectInfo struct {
	Root      string `json:"root"`
	Name      string `json:"name,omitempty"`
	Src       string `json:"src"`
	Tests     string `json:"tests"`
	Out       string `json:"out"`
	HadMarker bool   `json:"hadMarker"`
}

func projectInfoOf(proj config.Project) projectInfo {
	return projectInfo{
		Root: proj.Root, Name: proj.Name, Src: proj.Src, Tests: proj.Tests,
		Out: proj.Out, HadMarker: proj.HadMarker,
	}
}

// readSource reads a file, wrapping an OS failure as a CLI-phase
// diagnostic rather than a bare Go error so every command's failure path
// carries a stable code (§3.5).
func readSource(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Wrap(diag.New(diag.CLIModuleNotFound, diag.PhaseCLI,
			"could not read source file: "+path))
	}
	return src, nil
}

// lexFile runs input normalisation, surface-form validation (C2), and
// tokenisation (C3) over one file, the shared first step of tokenise and
// parse.
func lexFile(path string) ([]lexer.Token, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	normalized := lexer.Normalize(src)
	if err := surface.Validate(normalized, path); err != nil {
		return nil, err
	}
	return lexer.New(string(normalized), path).Tokenize()
}

// errEnvelope builds a failed envelope from any error: a diagnostic error
// carries its own code/phase through unchanged; anything else (should not
// happen once every phase returns diag.Err) is wrapped generically.
func errEnvelope(command string, err error) diag.Envelope {
	if d, ok := diag.AsDiagnostic(err); ok {
		return diag.ErrEnvelope(command, d)
	}
	return diag.ErrEnvelope(command, diag.New(diag.CLIModuleNotFound, diag.PhaseCLI, err.Error()))
}

// outputPathFor computes the generated-file path for a module, mirroring
// the source tree under the project's out directory one-for-one (§6.6):
// src/foo/bar -> <out>/src/foo/bar.ts, stdlib/io -> <out>/stdlib/io.ts.
func outputPathFor(proj config.Project, moduleID string) string {
	return filepath.Join(proj.OutDir(), filepath.FromSlash(moduleID)+targetExt)
}

// compileGraph loads and checks the module graph rooted at entryFile (C8),
// then code-generates every module in topological order (C9). Generation
// runs entirely in memory; nothing is written to disk here — §5's "no
// partial writes" rule is enforced by writeGraph running only once every
// module has generated successfully.
func compileGraph(proj config.Project, entryFile string) (*module.Graph, map[string]string, error) {
	g, err := module.Load(proj, entryFile)
	if err != nil {
		return nil, nil, err
	}
	texts := make(map[string]string, len(g.Order))
	for _, id := range g.Order {
		text, err := codegen.Generate(g.Modules[id])
		if err != nil {
			return nil, nil, err
		}
		texts[id] = text
	}
	return g, texts, nil
}

// writeFile writes one generated file, creating parent directories as
// needed, wrapping any I/O failure as a CLI-phase diagnostic.
func writeFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diag.Wrap(diag.New(diag.CLIWriteFailed, diag.PhaseCLI, err.Error()))
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return diag.Wrap(diag.New(diag.CLIWriteFailed, diag.PhaseCLI, err.Error()))
	}
	return nil
}

// writeGraph flushes every generated module's text to its output path.
func writeGraph(proj config.Project, g *module.Graph, texts map[string]string) ([]moduleOutput, error) {
	outs := make([]moduleOutput, 0, len(g.Order))
	for _, id := range g.Order {
		mod := g.Modules[id]
		outPath := outputPathFor(proj, id)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return nil, diag.Wrap(diag.New(diag.CLIWriteFailed, diag.PhaseCLI, err.Error()))
		}
		if err := os.WriteFile(outPath, []byte(texts[id]), 0o644); err != nil {
			return nil, diag.Wrap(diag.New(diag.CLIWriteFailed, diag.PhaseCLI, err.Error()))
		}
		outs = append(outs, moduleOutput{ModuleID: id, SourceFile: mod.FilePath, OutputFile: outPath})
	}
	return outs, nil
}
