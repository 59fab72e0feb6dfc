// Package pkg provides the core libraries for importspy dependency analysis.
//
// # Overview
//
// importspy builds and visualizes the import graph of a Python project.
// It walks the source tree, parses import statements, resolves them to
// canonical module identities, and renders the resulting graph with
// Graphviz. The pkg directory is organized along that flow:
//
//  1. [pysource] - Source discovery and import extraction (tree-sitter)
//  2. [pymodule] - Canonical module identities and import resolution
//  3. [depgraph] - Dependency graph structure and transformations
//  4. [render] - Graphviz DOT generation and artifact storage
//  5. [pipeline] - Orchestration (walk → parse → build → transform → render)
//
// # Architecture
//
// The typical data flow:
//
//	Python source tree
//	         ↓
//	    [pysource] package (walk files, parse imports)
//	         ↓
//	    [pymodule] package (resolve to canonical modules)
//	         ↓
//	    [depgraph] package (graph + filter/cluster/prune)
//	         ↓
//	    [render] package (DOT, SVG/PNG/JPG/JSON output)
//
// # Quick Start
//
// Run the complete pipeline against a project:
//
//	import (
//	    "context"
//	    "github.com/importspy/importspy/pkg/pipeline"
//	)
//
//	runner, _ := pipeline.NewRunner(nil)
//	opts := pipeline.DefaultOptions()
//	opts.UseClusters = true
//	result, _ := runner.Execute(context.Background(), "./myproject", opts)
//	fmt.Println(result.DOT)
//
// # Main Packages
//
// [pysource] - Walks a project tree for .py files (skipping virtualenvs,
// caches and hidden directories) and extracts module-level import
// statements with tree-sitter. Parsed files are cached by stat identity
// so watch-mode re-runs only touch changed files.
//
// [pymodule] - One immutable Module per canonical dotted path, classified
// as internal, third_party, or builtin. The Resolver maps raw import
// records (absolute, relative, from-imports) onto modules and collects
// per-import diagnostics instead of failing the run.
//
// [depgraph] - Deduplicated directed graph with edge multiplicities.
// [depgraph/transform] holds the graph passes: origin and glob filtering
// with hide-bridging, external summarization, package clustering with
// undersized-cluster collapse, and redundant-edge pruning.
//
// [render] - Converts a graph and cluster tree into a deterministic DOT
// document, renders it via Graphviz, and writes artifacts atomically
// with content-hash change detection.
//
// [pipeline] - Ties the stages together behind one Options struct. Used
// by both the graph and watch CLI commands so behavior stays identical.
//
// [config] - TOML option files and pyproject.toml project-name lookup.
//
// [errors] - Coded errors for fatal failures and a Collector for
// non-fatal per-import diagnostics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/depgraph/...         # Specific package
//	go test -run Example ./pkg/...     # Examples only
//
// [pysource]: https://pkg.go.dev/github.com/importspy/importspy/pkg/pysource
// [pymodule]: https://pkg.go.dev/github.com/importspy/importspy/pkg/pymodule
// [depgraph]: https://pkg.go.dev/github.com/importspy/importspy/pkg/depgraph
// [depgraph/transform]: https://pkg.go.dev/github.com/importspy/importspy/pkg/depgraph/transform
// [render]: https://pkg.go.dev/github.com/importspy/importspy/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/importspy/importspy/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/importspy/importspy/pkg/config
// [errors]: https://pkg.go.dev/github.com/importspy/importspy/pkg/errors
package pkg
