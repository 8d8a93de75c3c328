package level

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Provider supplies a validated level definition. Each call returns a fresh
// copy, so callers may adjust it before building a world.
type Provider interface {
	Load() (*Definition, error)
}

// FileProvider reads a level from a file on disk.
type FileProvider struct {
	Path string
}

// Load reads and parses the file.
func (p FileProvider) Load() (*Definition, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p.Path, err)
	}
	def, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", p.Path, err)
	}
	def.Source = p.Path
	return def, nil
}

// FSProvider reads a level from a file system, typically an embed.FS.
type FSProvider struct {
	FS   fs.FS
	Name string
}

// Load reads and parses the named file.
func (p FSProvider) Load() (*Definition, error) {
	data, err := fs.ReadFile(p.FS, p.Name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.Name, err)
	}
	def, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.Name, err)
	}
	def.Source = p.Name
	return def, nil
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID.
// A missing root directory yields no levels and no error.
func (l *Loader) LoadAll() ([]*Definition, error) {
	var defs []*Definition

	if _, err := os.Stat(l.Root); os.IsNotExist(err) {
		return nil, nil
	}

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		def, err := FileProvider{Path: path}.Load()
		if err != nil {
			// Skip invalid files
			return nil
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (*Definition, error) {
	defs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return nil, fmt.Errorf("level not found: %s", id)
}

func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
