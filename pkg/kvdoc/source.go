package kvdoc

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var bundled embed.FS

// Source fetches raw schema documents by path.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FSSource reads schema documents from a file system.
type FSSource struct {
	FS fs.FS
}

// Fetch reads name from the underlying file system.
func (s FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, name)
}

// EmbeddedSource serves the schemas compiled into the binary.
func EmbeddedSource() Source {
	sub, err := fs.Sub(bundled, "schemas")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return FSSource{FS: sub}
}

// DirSource serves schema documents from a directory on disk.
func DirSource(dir string) Source {
	return FSSource{FS: os.DirFS(dir)}
}

// FallbackSource tries each source in order and returns the first hit.
type FallbackSource []Source

// Fetch returns the document from the first source that has it.
func (s FallbackSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var lastErr error = fs.ErrNotExist
	for _, src := range s {
		data, err := src.Fetch(ctx, name)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// decodeSet parses a schema document. The format is JSON, which yaml.v3
// also reads, so hand-written YAML schemas work as well.
func decodeSet(name string, data []byte) (DocumentationSet, error) {
	var set DocumentationSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return DocumentationSet{}, fmt.Errorf("decoding %s: %w", path.Base(name), err)
	}
	if set.Sections == nil {
		set.Sections = map[string]SectionDocumentation{}
	}
	return set, nil
}
