package pysource

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestWalk_ModulePaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":            "",
		"pkg/__init__.py":    "",
		"pkg/a.py":           "",
		"pkg/sub/b.py":       "",
		"__init__.py":        "",
		"notpython.txt":      "",
		"__pycache__/x.py":   "",
		".hidden/secret.py":  "",
		"venv/lib/module.py": "",
	})

	files, err := Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"main", "pkg", "pkg.a", "pkg.sub.b"}
	if len(files) != len(want) {
		var got []string
		for _, f := range files {
			got = append(got, f.Module)
		}
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i, w := range want {
		if files[i].Module != w {
			t.Errorf("files[%d].Module = %q, want %q", i, files[i].Module, w)
		}
	}
}

func TestWalk_PackageFlag(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pkg/__init__.py": "",
		"pkg/a.py":        "",
	})

	files, err := Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	byModule := map[string]File{}
	for _, f := range files {
		byModule[f.Module] = f
	}
	if !byModule["pkg"].Package {
		t.Error("pkg/__init__.py not flagged as package")
	}
	if byModule["pkg.a"].Package {
		t.Error("plain module flagged as package")
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	if _, err := Walk(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Walk() on missing root succeeded")
	}
}

func TestOracle_IncludesPrefixes(t *testing.T) {
	files := []File{
		{Module: "pkg.sub.mod"},
		{Module: "other"},
	}

	o := Oracle(files)

	for _, p := range []string{"pkg", "pkg.sub", "pkg.sub.mod", "other"} {
		if !o.Exists(p) {
			t.Errorf("Exists(%q) = false, want true", p)
		}
	}
	if o.Exists("pkg.sub.ghost") {
		t.Error("Exists(pkg.sub.ghost) = true")
	}
}
