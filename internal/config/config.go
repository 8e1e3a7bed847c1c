// Package config loads the project marker (§6.2): a small sigil.yaml file
// at a project's root naming its source, tests, and generated-output
// subdirectories. Parsing uses gopkg.in/yaml.v3, the same library the
// teacher's ecosystem reaches for configuration files.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const markerFile = "sigil.yaml"

// Project is the parsed project marker plus the root directory it was
// found in (or, absent a marker, the ad-hoc root spec.md §4.8 step 1
// falls back to).
type Project struct {
	Root   string `yaml:"-"`
	Name   string `yaml:"name"`
	Src    string `yaml:"src"`
	Tests  string `yaml:"tests"`
	Out    string `yaml:"out"`
	Stdlib string `yaml:"stdlib"`

	// HadMarker is false when no sigil.yaml was found and Load fell back
	// to an ad-hoc, default-layout project rooted at the start directory.
	HadMarker bool `yaml:"-"`
}

func defaults(root string) Project {
	return Project{Root: root, Src: "src", Tests: "tests", Out: ".local"}
}

// Load searches from, then its ancestors, for sigil.yaml (§4.8 step 1). If
// none is found, it returns an ad-hoc project rooted at from with the
// default layout, and HadMarker is false.
func Load(from string) (Project, error) {
	dir, err := filepath.Abs(from)
	if err != nil {
		return Project{}, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Project{}, err
	}
	if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		markerPath := filepath.Join(dir, markerFile)
		if data, err := os.ReadFile(markerPath); err == nil {
			proj := defaults(dir)
			if err := yaml.Unmarshal(data, &proj); err != nil {
				return Project{}, err
			}
			proj.Root = dir
			proj.HadMarker = true
			applyEnvOverrides(&proj)
			return proj, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	abs, err := filepath.Abs(from)
	if err != nil {
		return Project{}, err
	}
	root := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		root = filepath.Dir(abs)
	}
	proj := defaults(root)
	applyEnvOverrides(&proj)
	return proj, nil
}

// applyEnvOverrides generalises the teacher's AILANG_PATH/AILANG_STDLIB
// environment-variable convention (internal/module's getDefaultSearchPaths/
// getStdlibPath) to SIGIL_PATH/SIGIL_STDLIB.
func applyEnvOverrides(p *Project) {
	if path := os.Getenv("SIGIL_PATH"); path != "" {
		p.Root = path
	}
	if stdlib := os.Getenv("SIGIL_STDLIB"); stdlib != "" {
		p.Stdlib = stdlib
	}
}

// SrcDir, TestsDir, OutDir, and StdlibDir return the project's absolute
// subdirectory paths.
func (p Project) SrcDir() string   { return filepath.Join(p.Root, p.Src) }
func (p Project) TestsDir() string { return filepath.Join(p.Root, p.Tests) }
func (p Project) OutDir() string   { return filepath.Join(p.Root, p.Out) }

// StdlibDir returns the standard library root: the Stdlib override if set,
// otherwise a "stdlib" directory inside the project root.
func (p Project) StdlibDir() string {
	if p.Stdlib != "" {
		return p.Stdlib
	}
	return filepath.Join(p.Root, "stdlib")
}
