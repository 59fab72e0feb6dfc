// Package pipeline provides the core graph-construction pipeline.
//
// A run walks a Python source tree, parses import statements, resolves
// them to canonical module identities, builds the dependency graph and
// transforms it (filtering, clustering, pruning) before handing the
// result to the render adapter. The same Runner backs the CLI's graph
// and watch commands so behavior stays identical across entry points.
//
// The stages run single-threaded: each one fully consumes its input
// and owns its output until handed to the next.
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/importspy/importspy/pkg/depgraph/transform"
	"github.com/importspy/importspy/pkg/errors"
	"github.com/importspy/importspy/pkg/render"
)

// Render modes control when the image artifact is regenerated.
const (
	RenderAlways    = "always"
	RenderIfChanged = "if_changed"
	RenderNever     = "never"
)

// DefaultFormat is the image format used when none is configured.
const DefaultFormat = "svg"

// FormatJSON writes the graph description itself instead of an image.
const FormatJSON = "json"

var validRenderModes = map[string]bool{
	RenderAlways:    true,
	RenderIfChanged: true,
	RenderNever:     true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Name labels the graph and the artifact files. When empty it
	// falls back to the project directory name.
	Name string `json:"name,omitempty"`

	// Filter options.
	ShowThirdParty    bool     `json:"show_3rdparty"`
	ShowBuiltin       bool     `json:"show_builtin"`
	SummarizeExternal bool     `json:"summarize_external,omitempty"`
	Ignore            []string `json:"ignore,omitempty"`
	Hide              []string `json:"hide,omitempty"`

	// Cluster options.
	UseClusters    bool `json:"use_clusters,omitempty"`
	UseNested      bool `json:"use_nested_clusters,omitempty"`
	MinClusterSize int  `json:"min_cluster_size,omitempty"`

	// Prune removes edges already implied by the remaining graph.
	Prune bool `json:"prune,omitempty"`

	// Artifact options.
	OutputToProject bool   `json:"output_to_project,omitempty"`
	OutputDir       string `json:"output_dir,omitempty"`
	SaveDOT         bool   `json:"save_dot,omitempty"`
	Render          string `json:"render,omitempty"`
	Format          string `json:"format,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// DefaultOptions returns the documented option defaults.
func DefaultOptions() Options {
	return Options{
		ShowThirdParty: true,
		ShowBuiltin:    true,
		MinClusterSize: 1,
		Render:         RenderIfChanged,
		Format:         DefaultFormat,
	}
}

// ValidateAndSetDefaults checks option consistency and applies
// defaults. It runs before any file is read so malformed patterns and
// unknown formats fail the run up front. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if err := transform.ValidatePatterns(o.Ignore); err != nil {
		return err
	}
	if err := transform.ValidatePatterns(o.Hide); err != nil {
		return err
	}

	if o.Render == "" {
		o.Render = RenderIfChanged
	}
	if !validRenderModes[o.Render] {
		return errors.New(errors.ErrCodeInvalidRenderMode,
			"invalid render mode: %q (must be one of: always, if_changed, never)", o.Render)
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Format != FormatJSON && !render.ValidFormat(o.Format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", o.Format)
	}

	if o.MinClusterSize < 1 {
		o.MinClusterSize = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

func (o Options) filterOptions() transform.FilterOptions {
	return transform.FilterOptions{
		ShowThirdParty:    o.ShowThirdParty,
		ShowBuiltin:       o.ShowBuiltin,
		SummarizeExternal: o.SummarizeExternal,
		Ignore:            o.Ignore,
		Hide:              o.Hide,
	}
}

func (o Options) clusterOptions() transform.ClusterOptions {
	return transform.ClusterOptions{
		UseClusters:    o.UseClusters,
		UseNested:      o.UseClusters && o.UseNested,
		MinClusterSize: o.MinClusterSize,
	}
}
