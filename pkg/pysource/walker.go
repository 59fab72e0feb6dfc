// Package pysource enumerates the Python files of a project and
// extracts their raw import statements.
//
// The walker feeds the pipeline a deterministic list of (canonical
// module path, file location) pairs; the parser turns each file into
// raw import records for the resolver. Parsing uses tree-sitter, so no
// Python interpreter is involved and no project code is ever executed.
package pysource

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/importspy/importspy/pkg/errors"
	"github.com/importspy/importspy/pkg/pymodule"
)

// File is one discovered Python source file.
type File struct {
	Module  string // canonical dotted module path, e.g. "pkg.sub.mod"
	Path    string // absolute filesystem location
	Rel     string // slash-separated path relative to the project root
	Package bool   // true for __init__.py files
}

// skipDirs are directories that never contain project modules.
var skipDirs = map[string]bool{
	"__pycache__":   true,
	"node_modules":  true,
	"site-packages": true,
	"venv":          true,
	"build":         true,
	"dist":          true,
}

// Walk enumerates every *.py file under root, each exactly once, and
// returns them sorted by module path. Hidden directories and well-known
// junk directories are skipped. The project root itself must exist.
func Walk(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "project root %s", root)
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != absRoot && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".py") {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		module := moduleForPath(rel)
		if module == "" {
			// A root-level __init__.py has no addressable dotted
			// path from inside the project.
			return nil
		}
		files = append(files, File{
			Module:  module,
			Path:    path,
			Rel:     rel,
			Package: strings.HasSuffix(rel, "/__init__.py"),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Module < files[j].Module })
	return files, nil
}

// moduleForPath converts a slash-separated relative path into the
// canonical dotted module path. A package's __init__.py canonicalizes
// to the package itself: "pkg/__init__.py" becomes "pkg", not
// "pkg.__init__".
func moduleForPath(rel string) string {
	rel = strings.TrimSuffix(rel, ".py")
	parts := strings.Split(rel, "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// Oracle derives a file-existence oracle from the walked file set: a
// dotted path exists when it names a walked module or any package
// prefix of one.
func Oracle(files []File) pymodule.SetOracle {
	o := make(pymodule.SetOracle, len(files))
	for _, f := range files {
		o.Add(f.Module)
	}
	return o
}
