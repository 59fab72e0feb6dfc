// Package config loads pipeline options from a TOML file and reads
// project metadata out of pyproject.toml.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/importspy/importspy/pkg/errors"
	"github.com/importspy/importspy/pkg/pipeline"
)

// File mirrors the pipeline option surface. Fields are pointers so an
// absent key leaves the corresponding option untouched and flags keep
// the last word.
type File struct {
	Name              *string  `toml:"name"`
	ShowThirdParty    *bool    `toml:"show_3rdparty"`
	ShowBuiltin       *bool    `toml:"show_builtin"`
	SummarizeExternal *bool    `toml:"summarize_external"`
	Ignore            []string `toml:"ignore"`
	Hide              []string `toml:"hide"`
	UseClusters       *bool    `toml:"use_clusters"`
	UseNested         *bool    `toml:"use_nested_clusters"`
	MinClusterSize    *int     `toml:"min_cluster_size"`
	Prune             *bool    `toml:"prune"`
	OutputToProject   *bool    `toml:"output_to_project"`
	OutputDir         *string  `toml:"output_dir"`
	SaveDOT           *bool    `toml:"save_dot"`
	Render            *string  `toml:"render"`
	Format            *string  `toml:"format"`
}

// Load reads and decodes a TOML options file. Unknown keys are
// rejected so typos surface instead of silently using defaults.
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// Apply copies the file's set values onto opts.
func (f *File) Apply(opts *pipeline.Options) {
	if f.Name != nil {
		opts.Name = *f.Name
	}
	if f.ShowThirdParty != nil {
		opts.ShowThirdParty = *f.ShowThirdParty
	}
	if f.ShowBuiltin != nil {
		opts.ShowBuiltin = *f.ShowBuiltin
	}
	if f.SummarizeExternal != nil {
		opts.SummarizeExternal = *f.SummarizeExternal
	}
	if f.Ignore != nil {
		opts.Ignore = f.Ignore
	}
	if f.Hide != nil {
		opts.Hide = f.Hide
	}
	if f.UseClusters != nil {
		opts.UseClusters = *f.UseClusters
	}
	if f.UseNested != nil {
		opts.UseNested = *f.UseNested
	}
	if f.MinClusterSize != nil {
		opts.MinClusterSize = *f.MinClusterSize
	}
	if f.Prune != nil {
		opts.Prune = *f.Prune
	}
	if f.OutputToProject != nil {
		opts.OutputToProject = *f.OutputToProject
	}
	if f.OutputDir != nil {
		opts.OutputDir = *f.OutputDir
	}
	if f.SaveDOT != nil {
		opts.SaveDOT = *f.SaveDOT
	}
	if f.Render != nil {
		opts.Render = *f.Render
	}
	if f.Format != nil {
		opts.Format = *f.Format
	}
}

// pyproject is the subset of pyproject.toml we care about.
type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

// ProjectName reads the project name from the pyproject.toml next to
// root, if any. Returns "" when the file or the name is missing.
func ProjectName(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return ""
	}
	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.Project.Name
}
