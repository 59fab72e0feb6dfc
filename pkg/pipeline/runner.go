package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/importspy/importspy/pkg/buildinfo"
	"github.com/importspy/importspy/pkg/depgraph"
	"github.com/importspy/importspy/pkg/depgraph/transform"
	"github.com/importspy/importspy/pkg/errors"
	"github.com/importspy/importspy/pkg/pymodule"
	"github.com/importspy/importspy/pkg/pysource"
	"github.com/importspy/importspy/pkg/render"
)

// Runner executes the pipeline. It is stateless between runs except
// for the parser's file-level cache, which lets watch-mode re-runs
// skip unchanged files.
type Runner struct {
	parser *pysource.Parser
	logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to the default.
func NewRunner(logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default()
	}
	parser, err := pysource.NewParser()
	if err != nil {
		return nil, err
	}
	return &Runner{parser: parser, logger: logger}, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID correlates log lines of one run; it never appears in
	// artifacts.
	RunID string

	// Graph is the final transformed dependency graph.
	Graph *depgraph.Graph

	// Clusters is the cluster tree the graph was grouped by.
	Clusters *transform.ClusterTree

	// Spec is the renderable node/edge/cluster description.
	Spec *render.Spec

	// DOT is the serialized Graphviz description.
	DOT string

	// Diagnostics are the non-fatal problems found during resolution.
	Diagnostics []errors.Diagnostic

	// DotPath and ArtifactPath are the written files; empty when the
	// corresponding artifact was not written.
	DotPath      string
	ArtifactPath string

	// Rendered reports whether the image artifact was regenerated
	// this run (false under render=never or an unchanged if_changed).
	Rendered bool

	// Stats contains size and timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FileCount    int
	NodeCount    int
	EdgeCount    int
	ClusterCount int

	ParseTime     time.Duration
	BuildTime     time.Duration
	TransformTime time.Duration
	RenderTime    time.Duration
}

// Execute runs the complete pipeline against the project rooted at
// root. Fatal configuration or I/O problems return an error; per-import
// resolution problems accumulate as diagnostics on the Result.
func (r *Runner) Execute(ctx context.Context, root string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{RunID: uuid.NewString()}
	logger = logger.With("run", result.RunID)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve project root %s", root)
	}

	// Stage 1: walk and parse.
	parseStart := time.Now()
	files, err := pysource.Walk(absRoot)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyProject, "no Python modules found under %s", absRoot)
	}
	result.Stats.FileCount = len(files)

	diags := &errors.Collector{}
	resolver := pymodule.NewResolver(pysource.Oracle(files), diags)
	builder := depgraph.NewBuilder()

	// Register every walked module before resolving any import so
	// targets bind to their real file and package identity regardless
	// of file order.
	for _, f := range files {
		builder.AddModule(resolver.Internal(f.Module, f.Path, f.Package))
	}

	for _, f := range files {
		importer, _ := resolver.Module(f.Module)

		records, err := r.parser.ParseFile(ctx, f.Path)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			for _, target := range resolver.Resolve(importer, rec) {
				builder.AddImport(importer, target)
			}
		}
	}
	result.Stats.ParseTime = time.Since(parseStart)
	logger.Info("parsed project", "files", len(files), "duration", result.Stats.ParseTime)

	// Stage 2: build.
	buildStart := time.Now()
	g := builder.Finalize()
	result.Stats.BuildTime = time.Since(buildStart)
	logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: transform.
	transformStart := time.Now()
	g, err = transform.Filter(g, opts.filterOptions())
	if err != nil {
		return nil, err
	}
	tree := transform.BuildClusters(g, opts.clusterOptions())
	if opts.Prune {
		g = transform.Prune(g, tree)
	}
	result.Graph = g
	result.Clusters = tree
	result.Diagnostics = diags.All()
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.ClusterCount = tree.Count()
	result.Stats.TransformTime = time.Since(transformStart)
	logger.Info("transformed graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"clusters", tree.Count(),
		"diagnostics", diags.Len(),
		"duration", result.Stats.TransformTime)
	for _, d := range diags.All() {
		logger.Warn(d.String())
	}

	// Stage 4: render.
	renderStart := time.Now()
	name := opts.Name
	if name == "" {
		name = filepath.Base(absRoot)
	}
	comment := "generated by importspy " + buildinfo.Version
	result.Spec = render.Build(g, tree, name, comment)
	result.DOT = result.Spec.DOT()

	if err := r.writeArtifacts(ctx, absRoot, opts, result); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Info("rendered outputs",
		"format", opts.Format,
		"rendered", result.Rendered,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// writeArtifacts persists the DOT file and the rendered artifact
// according to the configured render mode.
func (r *Runner) writeArtifacts(ctx context.Context, absRoot string, opts Options, result *Result) error {
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
		if opts.OutputToProject {
			dir = absRoot
		}
	}
	store := render.NewStore(dir, result.Spec.Name)

	// Compare against the previous DOT before overwriting it.
	changed := store.DotChanged(result.DOT)

	if opts.SaveDOT {
		path, err := store.SaveDOT(result.DOT)
		if err != nil {
			return err
		}
		result.DotPath = path
	}

	switch opts.Render {
	case RenderNever:
		return nil
	case RenderIfChanged:
		if !changed {
			return nil
		}
	}

	if opts.Format == FormatJSON {
		data, err := result.Spec.JSON()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode graph description")
		}
		path, err := store.SaveJSON(data)
		if err != nil {
			return err
		}
		result.ArtifactPath = path
		result.Rendered = true
		return nil
	}

	img, err := render.RenderImage(ctx, result.DOT, opts.Format)
	if err != nil {
		return err
	}
	path, err := store.SaveImage(img, opts.Format)
	if err != nil {
		return err
	}
	result.ArtifactPath = path
	result.Rendered = true
	return nil
}
