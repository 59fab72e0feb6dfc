package pysource

import (
	"context"
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/importspy/importspy/pkg/pymodule"
)

// parseCacheSize bounds the per-file parse cache. Watch mode re-walks
// the whole tree on every change; the cache keeps unchanged files from
// being re-parsed.
const parseCacheSize = 4096

// Parser extracts raw import records from Python files. Parse results
// are cached per (path, mtime, size), so repeated runs over an
// unchanged tree only pay for tree-sitter once per file.
type Parser struct {
	cache *lru.Cache[parseKey, []pymodule.ImportRecord]
}

type parseKey struct {
	path  string
	mtime int64
	size  int64
}

// NewParser creates a parser with a warm-start cache.
func NewParser() (*Parser, error) {
	cache, err := lru.New[parseKey, []pymodule.ImportRecord](parseCacheSize)
	if err != nil {
		return nil, err
	}
	return &Parser{cache: cache}, nil
}

// ParseFile reads and parses one Python file, returning its raw import
// records in source order.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]pymodule.ImportRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := parseKey{path: path, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if recs, ok := p.cache.Get(key); ok {
		return recs, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recs, err := ParseImports(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	p.cache.Add(key, recs)
	return recs, nil
}

// ParseImports extracts the module-level import statements from Python
// source. Aliases are stripped (identity is the real dotted path) and a
// wildcard from-import targets the module itself.
func ParseImports(ctx context.Context, src []byte) ([]pymodule.ImportRecord, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}
	defer tree.Close()

	var records []pymodule.ImportRecord
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "import_statement":
			records = append(records, plainImports(n, src)...)
		case "future_import_statement":
			// "from __future__ import x" imports feature flags, not
			// modules; the dependency is on __future__ itself.
			records = append(records, pymodule.ImportRecord{Module: "__future__"})
		case "import_from_statement":
			if rec, ok := fromImport(n, src); ok {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

// plainImports handles "import a.b, c as d": every listed name becomes
// its own record.
func plainImports(n *sitter.Node, src []byte) []pymodule.ImportRecord {
	var records []pymodule.ImportRecord
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			records = append(records, pymodule.ImportRecord{Module: c.Content(src)})
		case "aliased_import":
			if name := c.ChildByFieldName("name"); name != nil {
				records = append(records, pymodule.ImportRecord{Module: name.Content(src)})
			}
		}
	}
	return records
}

// fromImport handles "from [dots]module import names": one record with
// the relative level, the module path, and the imported names. The
// resolver decides per name whether it is a submodule or a symbol.
func fromImport(n *sitter.Node, src []byte) (pymodule.ImportRecord, bool) {
	var rec pymodule.ImportRecord

	mod := n.ChildByFieldName("module_name")
	if mod == nil {
		return rec, false
	}
	switch mod.Type() {
	case "relative_import":
		for i := 0; i < int(mod.NamedChildCount()); i++ {
			c := mod.NamedChild(i)
			switch c.Type() {
			case "import_prefix":
				rec.Level = strings.Count(c.Content(src), ".")
			case "dotted_name":
				rec.Module = c.Content(src)
			}
		}
	case "dotted_name":
		rec.Module = mod.Content(src)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() == mod.StartByte() {
			continue // the module_name child itself
		}
		switch c.Type() {
		case "dotted_name":
			rec.Names = append(rec.Names, c.Content(src))
		case "aliased_import":
			if name := c.ChildByFieldName("name"); name != nil {
				rec.Names = append(rec.Names, name.Content(src))
			}
		case "wildcard_import":
			// "from x import *" targets the module only.
		}
	}
	return rec, true
}
