package command

import (
	"path/filepath"

	"github.com/sigil-lang/sigilc/internal/codegen"
	"github.com/sigil-lang/sigilc/internal/config"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/module"
	"github.com/sigil-lang/sigilc/internal/types"
)

// Compile runs the full pipeline (C2-C9) over entryFile's module graph and
// flushes every generated module to disk: `{input, outputs:{rootTs,
// allModules}, project, typecheck:{ok, inferred}, semanticMap}`.
//
// semanticMap only reports the hook point a semantic-map generator would
// fill in — the generator itself is out of scope (spec.md §1), so this
// command always reports it as not generated.
func Compile(entryFile string) diag.Envelope {
	data, _, err := compile(entryFile)
	if err != nil {
		return errEnvelope("compile", err)
	}
	return diag.OKEnvelope("compile", data)
}

// CompileAndRun compiles entryFile, then additionally emits a runner stub
// at the project's out directory root that imports the entry module and
// awaits its main().
func CompileAndRun(entryFile string) diag.Envelope {
	data, ctx, err := compile(entryFile)
	if err != nil {
		return errEnvelope("compile-and-run", err)
	}

	runnerPath := filepath.Join(ctx.proj.OutDir(), "run"+targetExt)
	spec := codegen.RelativeSpecifier("run", ctx.rootID)
	runnerSrc := "import * as entry from " + quoteImport(spec) + ";\n\nawait entry.main();\n"
	if err := writeFile(runnerPath, runnerSrc); err != nil {
		return errEnvelope("compile-and-run", err)
	}

	data["runner"] = runnerPath
	return diag.OKEnvelope("compile-and-run", data)
}

// compileCtx carries the bits Compile computes that CompileAndRun needs in
// addition to the envelope payload.
type compileCtx struct {
	proj   config.Project
	rootID string
}

func compile(entryFile string) (map[string]interface{}, compileCtx, error) {
	proj, err := config.Load(filepath.Dir(entryFile))
	if err != nil {
		return nil, compileCtx{}, err
	}

	g, texts, err := compileGraph(proj, entryFile)
	if err != nil {
		return nil, compileCtx{}, err
	}
	outs, err := writeGraph(proj, g, texts)
	if err != nil {
		return nil, compileCtx{}, err
	}

	absEntry, err := filepath.Abs(entryFile)
	if err != nil {
		return nil, compileCtx{}, err
	}
	rootID := module.CanonicalID(proj, absEntry)
	rootOut := outputPathFor(proj, rootID)

	data := map[string]interface{}{
		"input": entryFile,
		"outputs": map[string]interface{}{
			"rootTs":     rootOut,
			"allModules": outs,
		},
		"project": projectInfoOf(proj),
		"typecheck": map[string]interface{}{
			"ok":       true,
			"inferred": inferredExports(g.Modules[rootID]),
		},
		"semanticMap": map[string]interface{}{
			"path": "", "generated": false, "aiEnhanced": false,
		},
	}
	return data, compileCtx{proj: proj, rootID: rootID}, nil
}

func inferredExports(mod *module.Module) map[string]string {
	out := make(map[string]string, len(mod.Exports))
	for name, t := range mod.Exports {
		out[name] = types.String(t)
	}
	return out
}

func quoteImport(spec string) string {
	return `"` + spec + `"`
}
