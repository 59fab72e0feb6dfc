package render

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/importspy/importspy/pkg/errors"
)

// Hash computes the SHA-256 of data as a 64-character hex string. The
// if-changed render mode compares hashes of the serialized graph
// description to skip redundant layout runs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store writes graph artifacts under a single output directory using
// the graph name as the file stem.
type Store struct {
	dir  string
	name string
}

// NewStore creates a store rooted at dir for artifacts named after name.
func NewStore(dir, name string) *Store {
	return &Store{dir: dir, name: name}
}

// DotPath returns the path of the DOT description file.
func (s *Store) DotPath() string {
	return filepath.Join(s.dir, s.name+".gv")
}

// JSONPath returns the path of the JSON graph export.
func (s *Store) JSONPath() string {
	return filepath.Join(s.dir, s.name+".json")
}

// ImagePath returns the path of the rendered image for a format.
func (s *Store) ImagePath(format string) string {
	return filepath.Join(s.dir, s.name+"."+format)
}

// DotChanged reports whether dot differs from the previously saved DOT
// file. A missing or unreadable file counts as changed.
func (s *Store) DotChanged(dot string) bool {
	prev, err := os.ReadFile(s.DotPath())
	if err != nil {
		return true
	}
	return Hash(prev) != Hash([]byte(dot))
}

// SaveDOT writes the DOT description file and returns its path.
func (s *Store) SaveDOT(dot string) (string, error) {
	path := s.DotPath()
	if err := s.write(path, []byte(dot)); err != nil {
		return "", err
	}
	return path, nil
}

// SaveJSON writes the JSON graph export and returns its path.
func (s *Store) SaveJSON(data []byte) (string, error) {
	path := s.JSONPath()
	if err := s.write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// SaveImage writes a rendered image and returns its path.
func (s *Store) SaveImage(data []byte, format string) (string, error) {
	path := s.ImagePath(format)
	if err := s.write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// write lands the file atomically: write a uniquely named temp file in
// the target directory, then rename over the destination. A crashed or
// concurrent run never leaves a half-written artifact in place.
func (s *Store) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", s.dir)
	}
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
