package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Directory loads every file under a directory as one text document.
type Directory struct {
	Path string
	// Filter accepts the paths to load. Nil loads everything.
	Filter func(path string) bool
	// Recursive descends into subdirectories.
	Recursive bool
}

var _ documentloaders.Loader = Directory{}

// DirectoryOption configures a Directory loader.
type DirectoryOption func(*Directory)

// WithFileFilter sets the path predicate.
func WithFileFilter(filter func(string) bool) DirectoryOption {
	return func(d *Directory) {
		d.Filter = filter
	}
}

// WithRecursive enables descending into subdirectories.
func WithRecursive(recursive bool) DirectoryOption {
	return func(d *Directory) {
		d.Recursive = recursive
	}
}

// NewDirectory creates a directory loader.
func NewDirectory(path string, opts ...DirectoryOption) Directory {
	d := Directory{Path: path}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Load reads the accepted files into documents, one per file, with the
// file path recorded as the document source.
func (d Directory) Load(ctx context.Context) ([]schema.Document, error) {
	var docs []schema.Document
	err := filepath.WalkDir(d.Path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if !d.Recursive && path != d.Path {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Filter != nil && !d.Filter(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, schema.Document{
			PageContent: string(data),
			Metadata:    map[string]any{"source": path},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// LoadAndSplit loads the documents and splits them with the given
// splitter.
func (d Directory) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}
	return textsplitter.SplitDocuments(splitter, docs)
}
