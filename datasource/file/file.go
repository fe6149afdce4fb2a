package file

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/compress"
	"github.com/go-sif/tabula/internal/source"
)

// Resolve returns the data files a path refers to
func Resolve(path string) ([]string, error) {
	var candidates []string
	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, errors.InvalidArgumentError{Argument: "path", Reason: err.Error()}
		}
		candidates = matches
	} else {
		candidates = []string{path}
	}
	var files []string
	for _, candidate := range candidates {
		expanded, err := expand(candidate)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}
	if len(files) == 0 {
		return nil, errors.SourceNotFoundError{Path: path}
	}
	return files, nil
}

func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.SourceNotFoundError{Path: path}
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || IsHidden(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// IsHidden returns true for file names which loaders skip
func IsHidden(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

type compressedFile struct {
	io.ReadCloser
	f *os.File
}

func (cf *compressedFile) Close() error {
	err := cf.ReadCloser.Close()
	if ferr := cf.f.Close(); err == nil {
		err = ferr
	}
	return err
}

// Open opens a file, decompressing it if its extension names a codec
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.SourceNotFoundError{Path: path}
	} else if err != nil {
		return nil, err
	}
	codec := compress.FromPath(path)
	if codec == compress.None {
		return f, nil
	}
	r, err := compress.NewReader(f, codec)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &compressedFile{ReadCloser: r, f: f}, nil
}

// Parse parses every file a path refers to, returning the files read
func Parse(path string, parser tabula.DataSourceParser, s tabula.Schema) (tabula.Schema, [][]interface{}, []string, error) {
	files, err := Resolve(path)
	if err != nil {
		return nil, nil, nil, err
	}
	s, rows, err := source.Collect(files, Open, parser, s)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, rows, files, nil
}
