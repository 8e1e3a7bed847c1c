package command

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/sigil-lang/sigilc/internal/config"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// testFileCompile is one entry file's compile outcome under CompileTests.
type testFileCompile struct {
	File    string         `json:"file"`
	OK      bool           `json:"ok"`
	Modules []moduleOutput `json:"modules,omitempty"`
	Error   *diag.Envelope `json:"error,omitempty"`
}

// CompileTests compiles every .sigil file under the project's tests
// directory (resolved from root), one module graph per file, and reports
// the generated runnable modules so an external runner can execute them.
//
// A failure in one test file does not stop the others: each is compiled
// independently and reported in the `files` list, matching the teacher's
// `ailang test` behaviour of running every discovered test regardless of
// earlier failures.
func CompileTests(root string) diag.Envelope {
	proj, err := config.Load(root)
	if err != nil {
		return errEnvelope("compile-tests", err)
	}

	files, err := discoverTestFiles(proj.TestsDir())
	if err != nil {
		return errEnvelope("compile-tests", err)
	}

	results := make([]testFileCompile, 0, len(files))
	var generated []moduleOutput
	allOK := true
	for _, f := range files {
		g, texts, cErr := compileGraph(proj, f)
		if cErr != nil {
			env := errEnvelope("compile-tests", cErr)
			results = append(results, testFileCompile{File: f, OK: false, Error: &env})
			allOK = false
			continue
		}
		outs, wErr := writeGraph(proj, g, texts)
		if wErr != nil {
			env := errEnvelope("compile-tests", wErr)
			results = append(results, testFileCompile{File: f, OK: false, Error: &env})
			allOK = false
			continue
		}
		results = append(results, testFileCompile{File: f, OK: true, Modules: outs})
		generated = append(generated, outs...)
	}

	return diag.OKEnvelope("compile-tests", map[string]interface{}{
		"testsDir":         proj.TestsDir(),
		"files":            results,
		"generatedModules": generated,
		"ok":               allOK,
	})
}

// discoverTestFiles walks dir for .sigil files in deterministic
// (lexicographic) order; a missing tests directory yields an empty list
// rather than an error, since a project may legitimately have no tests.
func discoverTestFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".sigil" {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
