// Package discovery walks a source root for files that are not yet
// registered in the project manifest.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ndkhanh/xcpatch/pkg/config"
	"github.com/ndkhanh/xcpatch/pkg/logger"
	"github.com/ndkhanh/xcpatch/pkg/manifest"
)

// maxWalkers bounds the number of top-level subtrees walked at once.
const maxWalkers = 8

// Options controls one discovery run.
type Options struct {
	// SourceRoot is the directory candidate paths are made relative to.
	SourceRoot string
	// Include and Exclude are doublestar globs over relative paths.
	Include []string
	Exclude []string
	// Rules resolves a path to its kind. Required.
	Rules func(path string) config.KindRule
	// Known reports paths already registered; matches are dropped.
	Known func(path string) bool
}

// Discover returns the files under SourceRoot that match the include
// globs, miss the exclude globs, and are not yet known to the
// manifest. Output is sorted by path and deterministic. Top-level
// subtrees are walked concurrently.
func Discover(ctx context.Context, opts Options) ([]manifest.NewFile, error) {
	root := filepath.Clean(opts.SourceRoot)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading source root: %w", err)
	}

	var (
		mu    sync.Mutex
		found []manifest.NewFile
	)
	collect := func(files []manifest.NewFile) {
		mu.Lock()
		found = append(found, files...)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWalkers)

	var top []string
	for _, e := range entries {
		if !e.IsDir() {
			if f, ok := candidate(opts, e.Name(), false); ok {
				collect([]manifest.NewFile{f})
			}
			continue
		}
		if f, ok := candidate(opts, e.Name(), true); ok {
			// Wrapper directories (asset catalogs, data models)
			// register as single entries; never descend.
			collect([]manifest.NewFile{f})
			continue
		}
		top = append(top, e.Name())
	}

	for _, name := range top {
		g.Go(func() error {
			files, err := walkSubtree(ctx, root, name, opts)
			if err != nil {
				return err
			}
			collect(files)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	logger.Debug("discovery finished", logger.Int("candidates", len(found)))
	return found, nil
}

func walkSubtree(ctx context.Context, root, name string, opts Options) ([]manifest.NewFile, error) {
	var files []manifest.NewFile
	start := filepath.Join(root, name)
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if f, ok := candidate(opts, rel, true); ok {
				files = append(files, f)
				return filepath.SkipDir
			}
			if excluded(opts.Exclude, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if f, ok := candidate(opts, rel, false); ok {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", name, err)
	}
	return files, nil
}

// candidate applies the glob filters, the known-path filter, and the
// kind rules to one relative path.
func candidate(opts Options, rel string, isDir bool) (manifest.NewFile, bool) {
	if !matchesAny(opts.Include, rel) {
		return manifest.NewFile{}, false
	}
	if excluded(opts.Exclude, rel) {
		return manifest.NewFile{}, false
	}
	if opts.Known != nil && opts.Known(rel) {
		return manifest.NewFile{}, false
	}
	// Only suffixed directories (wrapper bundles) can be leaf entries.
	if isDir && filepath.Ext(rel) == "" {
		return manifest.NewFile{}, false
	}
	rule := opts.Rules(rel)
	return manifest.NewFile{Path: rel, Type: rule.Type, Compile: rule.Compile}, true
}

func matchesAny(globs []string, rel string) bool {
	for _, glob := range globs {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func excluded(globs []string, rel string) bool {
	for _, glob := range globs {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
		// A glob like "**/Pods/**" should also drop the directory
		// itself when rel carries a trailing slash marker.
		if strings.HasSuffix(rel, "/") {
			if ok, err := doublestar.Match(glob, rel+"x"); err == nil && ok {
				return true
			}
		}
	}
	return false
}
