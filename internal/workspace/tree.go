// Package workspace materializes a Clonk folder into a browsable tree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Node is a file or folder in the workspace tree.
type Node struct {
	Name        string
	Path        string
	Ext         string
	IsDir       bool
	PreviewPath string // title or graphics image inside a folder, if any
	Children    []*Node
	Parent      *Node `json:"-"`

	loaded bool
}

// Loader builds workspace trees.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Load reads root and returns it as a tree. Every folder directly under
// root is listed one level deep; deeper levels load on Expand.
// Entries that cannot be read are skipped and reported in the returned
// error, which may be non-nil alongside a usable tree.
func (l *Loader) Load(root string) (*Node, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening workspace: %s is not a directory", root)
	}

	node := &Node{
		Name:  filepath.Base(root),
		Path:  root,
		IsDir: true,
	}

	errs := l.expand(node)
	for _, child := range node.Children {
		if child.IsDir {
			errs = multierr.Append(errs, l.expand(child))
		}
	}

	l.log.Debug("workspace loaded",
		zap.String("root", root),
		zap.Int("entries", len(node.Children)))
	return node, errs
}

// Expand lists the children of a folder node if not done already.
func (l *Loader) Expand(node *Node) error {
	if !node.IsDir || node.loaded {
		return nil
	}
	return l.expand(node)
}

func (l *Loader) expand(node *Node) error {
	entries, err := os.ReadDir(node.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", node.Path, err)
	}

	var errs error
	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(node.Path, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				l.log.Warn("skipping broken link", zap.String("path", path), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("reading %s: %w", path, err))
				continue
			}
			isDir = info.IsDir()
		}

		children = append(children, &Node{
			Name:   entry.Name(),
			Path:   path,
			Ext:    Ext(entry.Name()),
			IsDir:  isDir,
			Parent: node,
		})
	}

	SortNodes(children)
	node.Children = children
	node.PreviewPath = previewPath(children)
	node.loaded = true
	return errs
}

// previewPath picks the folder's preview image: title.png/jpg wins over
// graphics.png/jpg.
func previewPath(children []*Node) string {
	var graphics, title string
	for _, c := range children {
		name := strings.ToLower(c.Name)
		switch {
		case strings.HasSuffix(name, "title.png"), strings.HasSuffix(name, "title.jpg"):
			title = c.Path
		case strings.HasSuffix(name, "graphics.png"), strings.HasSuffix(name, "graphics.jpg"):
			graphics = c.Path
		}
	}
	if title != "" {
		return title
	}
	return graphics
}

// Find returns all loaded nodes whose path matches pattern. Patterns with
// wildcards are glob-matched against the file name and then the path
// relative to the root; other patterns match as case-insensitive substrings.
func Find(root *Node, pattern string) []*Node {
	pattern = strings.ToLower(pattern)
	var found []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if matches(root, c, pattern) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(root)
	return found
}

func matches(root, n *Node, pattern string) bool {
	if pattern == "" {
		return true
	}
	rel, err := filepath.Rel(root.Path, n.Path)
	if err != nil {
		rel = n.Path
	}
	rel = strings.ToLower(filepath.ToSlash(rel))

	if strings.ContainsAny(pattern, "*?") {
		if ok, _ := filepath.Match(pattern, strings.ToLower(n.Name)); ok {
			return true
		}
		ok, _ := filepath.Match(pattern, rel)
		return ok
	}
	return strings.Contains(rel, pattern)
}
