package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/importspy/importspy/pkg/config"
	"github.com/importspy/importspy/pkg/pipeline"
)

// newGraphCmd creates the graph command, the primary entry point: it
// runs the full pipeline once and writes the artifacts.
func newGraphCmd() *cobra.Command {
	var cfgPath string
	flagOpts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Build and render the import graph of a Python project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			opts, err := mergeOptions(cmd, cfgPath, flagOpts)
			if err != nil {
				return err
			}
			return runGraph(cmd.Context(), root, opts)
		},
	}

	addPipelineFlags(cmd, &flagOpts)
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "TOML options file")

	return cmd
}

// addPipelineFlags binds the shared pipeline option surface to a
// command. The graph and watch commands expose the same flags.
func addPipelineFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "graph name (default: pyproject.toml name or directory name)")
	cmd.Flags().BoolVar(&opts.ShowThirdParty, "third-party", opts.ShowThirdParty, "include third-party modules")
	cmd.Flags().BoolVar(&opts.ShowBuiltin, "builtin", opts.ShowBuiltin, "include standard-library modules")
	cmd.Flags().BoolVar(&opts.SummarizeExternal, "summarize-external", opts.SummarizeExternal, "collapse external modules to their top-level package")
	cmd.Flags().StringSliceVar(&opts.Ignore, "ignore", nil, "glob patterns of modules to drop entirely")
	cmd.Flags().StringSliceVar(&opts.Hide, "hide", nil, "glob patterns of modules to hide, bridging their edges")
	cmd.Flags().BoolVar(&opts.UseClusters, "clusters", opts.UseClusters, "group modules into package clusters")
	cmd.Flags().BoolVar(&opts.UseNested, "nested-clusters", opts.UseNested, "build the full nested cluster hierarchy")
	cmd.Flags().IntVar(&opts.MinClusterSize, "min-cluster-size", opts.MinClusterSize, "minimum module count for a cluster")
	cmd.Flags().BoolVar(&opts.Prune, "prune", opts.Prune, "remove edges implied by the remaining graph")
	cmd.Flags().BoolVar(&opts.OutputToProject, "output-to-project", opts.OutputToProject, "write artifacts into the project root")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "output directory (overrides --output-to-project)")
	cmd.Flags().BoolVar(&opts.SaveDOT, "save-dot", opts.SaveDOT, "write the DOT description file")
	cmd.Flags().StringVar(&opts.Render, "render", opts.Render, "render mode: always, if_changed, never")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "artifact format: svg, png, jpg, dot, json")
}

// mergeOptions layers configuration: defaults, then the config file,
// then any flag the user explicitly set.
func mergeOptions(cmd *cobra.Command, cfgPath string, flagOpts pipeline.Options) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if cfgPath != "" {
		f, err := config.Load(cfgPath)
		if err != nil {
			return opts, err
		}
		f.Apply(&opts)
	}

	set := map[string]func(){
		"name":               func() { opts.Name = flagOpts.Name },
		"third-party":        func() { opts.ShowThirdParty = flagOpts.ShowThirdParty },
		"builtin":            func() { opts.ShowBuiltin = flagOpts.ShowBuiltin },
		"summarize-external": func() { opts.SummarizeExternal = flagOpts.SummarizeExternal },
		"ignore":             func() { opts.Ignore = flagOpts.Ignore },
		"hide":               func() { opts.Hide = flagOpts.Hide },
		"clusters":           func() { opts.UseClusters = flagOpts.UseClusters },
		"nested-clusters":    func() { opts.UseNested = flagOpts.UseNested },
		"min-cluster-size":   func() { opts.MinClusterSize = flagOpts.MinClusterSize },
		"prune":              func() { opts.Prune = flagOpts.Prune },
		"output-to-project":  func() { opts.OutputToProject = flagOpts.OutputToProject },
		"output":             func() { opts.OutputDir = flagOpts.OutputDir },
		"save-dot":           func() { opts.SaveDOT = flagOpts.SaveDOT },
		"render":             func() { opts.Render = flagOpts.Render },
		"format":             func() { opts.Format = flagOpts.Format },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	return opts, nil
}

func runGraph(ctx context.Context, root string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	if opts.Name == "" {
		if abs, err := filepath.Abs(root); err == nil {
			opts.Name = config.ProjectName(abs)
		}
	}

	runner, err := pipeline.NewRunner(logger)
	if err != nil {
		return err
	}

	p := newProgress(logger)
	spinner := newSpinner(ctx, "building import graph")
	spinner.Start()
	result, err := runner.Execute(ctx, root, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	p.done("pipeline complete")

	printSummary(result, opts.Render)
	return nil
}

// printSummary shows the run outcome: counts, diagnostics, and the
// files that were written.
func printSummary(result *pipeline.Result, renderMode string) {
	printSuccess("%s", StyleTitle.Render(result.Spec.Name))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.ClusterCount)

	for _, d := range result.Diagnostics {
		printWarning("%s", d.String())
	}

	if result.DotPath != "" {
		printFile(result.DotPath)
	}
	switch {
	case result.ArtifactPath != "":
		printFile(result.ArtifactPath)
	case renderMode == pipeline.RenderNever:
	case !result.Rendered:
		printInfo("render skipped (unchanged)")
	}
}
