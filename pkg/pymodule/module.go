// Package pymodule defines canonical Python module identities and the
// resolver that maps raw import references onto them.
//
// A Module is the canonical identity of one Python module: its fully
// qualified dotted path, independent of any local alias, plus an origin
// classification (internal, third_party, builtin). Modules are created
// once per run by a Resolver and never mutated afterwards, so pointer
// equality doubles as identity equality downstream.
package pymodule

import "strings"

// Origin classifies where a module comes from.
type Origin int

const (
	// OriginInternal marks a module owned by the analyzed project.
	OriginInternal Origin = iota
	// OriginThirdParty marks an installed external package.
	OriginThirdParty
	// OriginBuiltin marks a Python standard-library or builtin module.
	OriginBuiltin
)

// String returns the serialized origin tag.
func (o Origin) String() string {
	switch o {
	case OriginInternal:
		return "internal"
	case OriginThirdParty:
		return "third_party"
	case OriginBuiltin:
		return "builtin"
	}
	return "unknown"
}

// Module is the canonical identity of a Python module.
// Instances are immutable; all fields are fixed at construction.
type Module struct {
	path   string
	origin Origin
	file   string // filesystem location, internal modules only
	pkg    bool   // true for package modules (__init__.py)
}

// New creates a module with the given canonical dotted path and origin.
// Most callers obtain modules from a Resolver instead, which guarantees
// one instance per canonical path; New exists for synthesized nodes
// (e.g. external summarization representatives) and tests.
func New(path string, origin Origin) *Module {
	return &Module{path: path, origin: origin}
}

// NewInternal creates an internal module bound to a file location.
func NewInternal(path, file string) *Module {
	return &Module{path: path, origin: OriginInternal, file: file}
}

// NewInternalPackage creates an internal package module, i.e. one
// backed by an __init__.py. Packages anchor relative imports one level
// higher than plain modules.
func NewInternalPackage(path, file string) *Module {
	return &Module{path: path, origin: OriginInternal, file: file, pkg: true}
}

// Path returns the canonical dotted path, e.g. "pkg.sub.mod".
func (m *Module) Path() string { return m.path }

// Name returns the last dotted component, e.g. "mod".
func (m *Module) Name() string {
	if i := strings.LastIndexByte(m.path, '.'); i >= 0 {
		return m.path[i+1:]
	}
	return m.path
}

// Root returns the first dotted component, e.g. "pkg".
func (m *Module) Root() string {
	if i := strings.IndexByte(m.path, '.'); i >= 0 {
		return m.path[:i]
	}
	return m.path
}

// Prefix returns the package-path prefix (everything before the last
// component), or "" for a top-level module.
func (m *Module) Prefix() string {
	if i := strings.LastIndexByte(m.path, '.'); i >= 0 {
		return m.path[:i]
	}
	return ""
}

// Components returns the dotted path split into its components.
func (m *Module) Components() []string {
	return strings.Split(m.path, ".")
}

// Depth returns the package depth of the module: the number of package
// components above it. A top-level module has depth 0.
func (m *Module) Depth() int {
	return strings.Count(m.path, ".")
}

// Origin returns the module's origin classification.
func (m *Module) Origin() Origin { return m.origin }

// IsInternal reports whether the module is project-owned.
func (m *Module) IsInternal() bool { return m.origin == OriginInternal }

// IsPackage reports whether the module is a package (__init__.py).
func (m *Module) IsPackage() bool { return m.pkg }

// File returns the filesystem location for internal modules, "" otherwise.
func (m *Module) File() string { return m.file }

// String renders the module for logs and debugging.
func (m *Module) String() string {
	if m.origin == OriginInternal {
		return m.path
	}
	return m.path + " (" + m.origin.String() + ")"
}
