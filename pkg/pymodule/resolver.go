package pymodule

import (
	"strings"

	"github.com/importspy/importspy/pkg/errors"
)

// Oracle answers whether a dotted path names a module or package inside
// the analyzed project. Resolution is a pure function over this
// interface; tests inject fake file sets instead of touching a disk.
type Oracle interface {
	Exists(path string) bool
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(path string) bool

// Exists implements Oracle.
func (f OracleFunc) Exists(path string) bool { return f(path) }

// SetOracle is an Oracle backed by a fixed set of dotted paths.
// The production pipeline builds one from the walked file list; tests
// construct them directly.
type SetOracle map[string]struct{}

// NewSetOracle builds a SetOracle from dotted module paths, including
// every package prefix of each path.
func NewSetOracle(paths ...string) SetOracle {
	o := make(SetOracle, len(paths))
	for _, p := range paths {
		o.Add(p)
	}
	return o
}

// Add inserts a dotted path and all of its package prefixes.
func (o SetOracle) Add(path string) {
	for {
		o[path] = struct{}{}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			return
		}
		path = path[:i]
	}
}

// Exists implements Oracle.
func (o SetOracle) Exists(path string) bool {
	_, ok := o[path]
	return ok
}

// ImportRecord is one raw import statement as produced by the parser.
type ImportRecord struct {
	// Level is the relative-import up-level count; 0 means absolute.
	Level int
	// Module is the dotted module path after the dots. Empty for
	// statements like "from . import x".
	Module string
	// Names holds the imported names of a from-import. Each name may
	// turn out to be a submodule (tracked as its own edge target) or a
	// symbol (folded into the module itself). Nil for plain imports.
	Names []string
}

// Resolver maps raw import references to canonical Module identities.
// It owns the identity cache for one run: resolving the same canonical
// path twice yields the identical *Module. A Resolver is not safe for
// concurrent use; the pipeline is single-threaded.
type Resolver struct {
	oracle Oracle
	byPath map[string]*Module
	diags  *errors.Collector
}

// NewResolver creates a resolver over the given project oracle.
// Non-fatal resolution problems are recorded on diags.
func NewResolver(oracle Oracle, diags *errors.Collector) *Resolver {
	return &Resolver{
		oracle: oracle,
		byPath: make(map[string]*Module),
		diags:  diags,
	}
}

// Internal registers a project-owned module discovered by the walker
// and returns its canonical instance. pkg marks package modules
// (__init__.py). Registering the same path twice returns the existing
// instance; the first registration wins.
func (r *Resolver) Internal(path, file string, pkg bool) *Module {
	if m, ok := r.byPath[path]; ok {
		return m
	}
	m := NewInternal(path, file)
	if pkg {
		m = NewInternalPackage(path, file)
	}
	r.byPath[path] = m
	return m
}

// Module returns the cached module for a canonical path, if any.
func (r *Resolver) Module(path string) (*Module, bool) {
	m, ok := r.byPath[path]
	return m, ok
}

// Resolve maps one raw import record from the given importer to its
// target modules. A from-import with several names can produce several
// targets; duplicates within one statement are folded so a statement
// contributes at most one edge per target. Unresolvable references are
// recorded as diagnostics and omitted from the result.
func (r *Resolver) Resolve(importer *Module, rec ImportRecord) []*Module {
	base := rec.Module
	if rec.Level > 0 {
		prefix, ok := r.relativeBase(importer, rec.Level)
		if !ok {
			return nil
		}
		base = joinDotted(prefix, rec.Module)
	}

	if len(rec.Names) == 0 {
		if m := r.target(importer, base); m != nil {
			return []*Module{m}
		}
		return nil
	}

	seen := make(map[*Module]struct{}, len(rec.Names))
	var targets []*Module
	for _, name := range rec.Names {
		path := base
		if sub := joinDotted(base, name); r.oracle.Exists(sub) {
			path = sub
		}
		m := r.target(importer, path)
		if m == nil {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		targets = append(targets, m)
	}
	return targets
}

// relativeBase walks up the importer's package path by level steps.
// Level 1 is the containing package, which for a package module is the
// module itself. Walking above the project root is an unresolvable
// import: it is reported as a diagnostic and the edge is skipped.
func (r *Resolver) relativeBase(importer *Module, level int) (string, bool) {
	comps := importer.Components()
	depth := len(comps) - 1
	if importer.IsPackage() {
		depth = len(comps)
	}
	if level > depth {
		r.diags.Add(errors.ErrCodeUnresolvableImport, importer.File(),
			"relative import level %d exceeds package depth %d of %s",
			level, depth, importer.Path())
		return "", false
	}
	keep := len(comps) - level
	if importer.IsPackage() {
		keep++
	}
	return strings.Join(comps[:keep], "."), true
}

// target resolves a dotted path to its canonical module, creating and
// caching the instance on first sight.
func (r *Resolver) target(importer *Module, path string) *Module {
	if path == "" {
		r.diags.Add(errors.ErrCodeUnresolvableImport, importer.File(),
			"empty import target in %s", importer.Path())
		return nil
	}
	if m, ok := r.byPath[path]; ok {
		return m
	}

	// Longest project-internal prefix wins: "import pkg.sub.helper"
	// binds to pkg.sub if helper is a symbol defined in pkg/sub.
	for p := path; p != ""; p = parentPrefix(p) {
		if !r.oracle.Exists(p) {
			continue
		}
		m, ok := r.byPath[p]
		if !ok {
			m = NewInternal(p, "")
			r.byPath[p] = m
		}
		if IsStdlib(m.Root()) {
			r.diags.Add(errors.ErrCodeShadowedBuiltin, importer.File(),
				"module %q is both local and builtin", m.Root())
		}
		return m
	}

	origin := OriginThirdParty
	if IsStdlib(rootComponent(path)) {
		origin = OriginBuiltin
	}
	m := New(path, origin)
	r.byPath[path] = m
	return m
}

func joinDotted(base, rest string) string {
	switch {
	case base == "":
		return rest
	case rest == "":
		return base
	default:
		return base + "." + rest
	}
}

func parentPrefix(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}

func rootComponent(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}
