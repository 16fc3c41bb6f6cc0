package asnr

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the file extensions recognized as ASN.1
// notation files.
var DefaultExtensions = []string{".asn", ".asn1", ".txt"}

// Source enumerates ASN.1 notation inputs for Compile. Directory
// sources list their files eagerly but read them lazily, inside the
// compile worker pool.
type Source interface {
	// Inputs returns this source's inputs in deterministic order.
	Inputs() ([]Input, error)
}

// Input is one notation text.
type Input struct {
	// Name identifies the input in diagnostics, typically a file path.
	Name string

	// Read returns the notation text. Called at most once per compile.
	Read func() ([]byte, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{extensions: DefaultExtensions}
}

// WithExtensions sets the file extensions this source recognizes,
// replacing DefaultExtensions.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) { c.extensions = exts }
}

func fileInput(path string) Input {
	return Input{
		Name: path,
		Read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// --- Dir Source (single directory, no recursion) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source over the notation files of a single directory,
// without recursion. The directory is listed on each compile.
func Dir(path string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, config: cfg}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Inputs() ([]Input, error) {
	extSet := makeExtensionSet(s.config.extensions)

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}

	var inputs []Input
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.path, entry.Name())
		if hasValidExtension(path, extSet) {
			inputs = append(inputs, fileInput(path))
		}
	}
	return inputs, nil
}

// --- DirTree Source (recursive directory, indexed) ---

type treeSource struct {
	files  []string
	config sourceConfig
}

// DirTree creates a Source that recursively indexes a directory tree.
// The tree is walked once at construction; files found later are not
// picked up.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}

	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	extSet := makeExtensionSet(cfg.extensions)
	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &treeSource{files: files, config: cfg}, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) Inputs() ([]Input, error) {
	inputs := make([]Input, 0, len(s.files))
	for _, path := range s.files {
		inputs = append(inputs, fileInput(path))
	}
	return inputs, nil
}

// --- FS Source (fs.FS, e.g. embed.FS) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig
}

// FS creates a Source over an fs.FS, such as an embed.FS holding
// notation shipped inside a binary. The name prefixes input names in
// diagnostics.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{name: name, fsys: fsys, config: cfg}
}

func (s *fsSource) Inputs() ([]Input, error) {
	extSet := makeExtensionSet(s.config.extensions)

	var inputs []Input
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasValidExtension(path, extSet) {
			return nil
		}
		inputs = append(inputs, Input{
			Name: s.name + ":" + path,
			Read: func() ([]byte, error) { return fs.ReadFile(s.fsys, path) },
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// --- Explicit inputs (files, readers, literals) ---

type fileListSource struct {
	paths []string
}

// Files creates a Source over an explicit list of file paths. No
// extension filtering applies; naming a file is opting it in.
func Files(paths ...string) Source {
	return &fileListSource{paths: paths}
}

func (s *fileListSource) Inputs() ([]Input, error) {
	inputs := make([]Input, 0, len(s.paths))
	for _, path := range s.paths {
		inputs = append(inputs, fileInput(path))
	}
	return inputs, nil
}

type readerSource struct {
	name string
	r    io.Reader
}

// Reader creates a Source over a single reader. The name is used in
// diagnostics. The reader is consumed by the first compile.
func Reader(name string, r io.Reader) Source {
	return &readerSource{name: name, r: r}
}

func (s *readerSource) Inputs() ([]Input, error) {
	return []Input{{
		Name: s.name,
		Read: func() ([]byte, error) { return io.ReadAll(s.r) },
	}}, nil
}

// String creates a Source over a notation literal. The name is used in
// diagnostics.
func String(name, text string) Source {
	return &stringSource{name: name, text: text}
}

type stringSource struct {
	name string
	text string
}

func (s *stringSource) Inputs() ([]Input, error) {
	return []Input{{
		Name: s.name,
		Read: func() ([]byte, error) { return []byte(s.text), nil },
	}}, nil
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one. Inputs are enumerated in
// source order.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Inputs() ([]Input, error) {
	var inputs []Input
	for _, src := range s.sources {
		in, err := src.Inputs()
		if err != nil {
			return nil, fmt.Errorf("listing inputs: %w", err)
		}
		inputs = append(inputs, in...)
	}
	return inputs, nil
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
