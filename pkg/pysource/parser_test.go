package pysource

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/importspy/importspy/pkg/pymodule"
)

func TestParseImports(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []pymodule.ImportRecord
	}{
		{
			name: "plain import",
			src:  "import os\n",
			want: []pymodule.ImportRecord{{Module: "os"}},
		},
		{
			name: "dotted import",
			src:  "import os.path\n",
			want: []pymodule.ImportRecord{{Module: "os.path"}},
		},
		{
			name: "multiple names one statement",
			src:  "import os, sys\n",
			want: []pymodule.ImportRecord{{Module: "os"}, {Module: "sys"}},
		},
		{
			name: "alias stripped",
			src:  "import numpy as np\n",
			want: []pymodule.ImportRecord{{Module: "numpy"}},
		},
		{
			name: "from import",
			src:  "from pkg.sub import a, b\n",
			want: []pymodule.ImportRecord{{Module: "pkg.sub", Names: []string{"a", "b"}}},
		},
		{
			name: "from import alias stripped",
			src:  "from pkg import thing as t\n",
			want: []pymodule.ImportRecord{{Module: "pkg", Names: []string{"thing"}}},
		},
		{
			name: "relative import",
			src:  "from ..sibling import helper\n",
			want: []pymodule.ImportRecord{{Level: 2, Module: "sibling", Names: []string{"helper"}}},
		},
		{
			name: "bare relative import",
			src:  "from . import mod\n",
			want: []pymodule.ImportRecord{{Level: 1, Names: []string{"mod"}}},
		},
		{
			name: "wildcard targets module",
			src:  "from pkg import *\n",
			want: []pymodule.ImportRecord{{Module: "pkg"}},
		},
		{
			name: "future import",
			src:  "from __future__ import annotations\n",
			want: []pymodule.ImportRecord{{Module: "__future__"}},
		},
		{
			name: "function-level imports ignored",
			src:  "def f():\n    import os\n",
			want: nil,
		},
		{
			name: "mixed module",
			src: "import os\nfrom . import a\n\ndef main():\n    import hidden\n\nimport sys\n",
			want: []pymodule.ImportRecord{
				{Module: "os"},
				{Level: 1, Names: []string{"a"}},
				{Module: "sys"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImports(context.Background(), []byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseImports() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFile_CachesByStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	if err := os.WriteFile(path, []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewParser()
	if err != nil {
		t.Fatal(err)
	}

	first, err := p.ParseFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ParseFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected record counts: %d, %d", len(first), len(second))
	}
	// Cached results return the identical slice.
	if &first[0] != &second[0] {
		t.Error("second parse did not hit the cache")
	}
}

func TestParseFile_Missing(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "nope.py")); err == nil {
		t.Error("ParseFile() on missing file succeeded")
	}
}
