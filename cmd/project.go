package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndkhanh/xcpatch/internal/discovery"
	"github.com/ndkhanh/xcpatch/pkg/config"
	"github.com/ndkhanh/xcpatch/pkg/logger"
	"github.com/ndkhanh/xcpatch/pkg/manifest"
)

// projectContext resolves the shared inputs of the add and check
// commands: where the manifest lives, where sources live, and the
// effective configuration.
type projectContext struct {
	ManifestPath string
	SourceRoot   string
	Config       *config.Config
}

func resolveProject(cmd *cobra.Command) (*projectContext, error) {
	manifestPath, _ := cmd.Flags().GetString("project")
	sourceRoot, _ := cmd.Flags().GetString("source-root")

	if manifestPath == "" {
		located, err := locateManifest(".")
		if err != nil {
			return nil, err
		}
		manifestPath = located
	}
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", manifestPath, err)
	}

	if sourceRoot == "" {
		sourceRoot = deriveSourceRoot(manifestPath)
	}

	cfg, err := config.Load(filepath.Dir(filepath.Dir(manifestPath)))
	if err != nil {
		return nil, err
	}

	return &projectContext{
		ManifestPath: manifestPath,
		SourceRoot:   sourceRoot,
		Config:       cfg,
	}, nil
}

// locateManifest finds the single *.xcodeproj/project.pbxproj under
// dir. Zero or several candidates require an explicit --project.
func locateManifest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xcodeproj", "project.pbxproj"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no *.xcodeproj/project.pbxproj found in %s, use --project", dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("multiple project manifests found in %s, use --project", dir)
	}
}

// deriveSourceRoot guesses the source root for a manifest. Xcode
// convention keeps sources in a sibling directory named after the
// project, next to the .xcodeproj wrapper.
func deriveSourceRoot(manifestPath string) string {
	wrapper := filepath.Dir(manifestPath)
	container := filepath.Dir(wrapper)
	name := strings.TrimSuffix(filepath.Base(wrapper), ".xcodeproj")

	candidate := filepath.Join(container, name)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return container
}

// collectFiles turns explicit arguments into NewFile values, or runs
// discovery over the source root when no arguments are given.
func collectFiles(ctx context.Context, pc *projectContext, doc *manifest.Document, args []string) ([]manifest.NewFile, error) {
	if len(args) > 0 {
		files := make([]manifest.NewFile, 0, len(args))
		for _, arg := range args {
			rel := filepath.ToSlash(filepath.Clean(arg))
			rule := pc.Config.KindFor(rel)
			files = append(files, manifest.NewFile{Path: rel, Type: rule.Type, Compile: rule.Compile})
		}
		return files, nil
	}

	logger.Debug("discovering candidates", logger.String("root", pc.SourceRoot))
	return discovery.Discover(ctx, discovery.Options{
		SourceRoot: pc.SourceRoot,
		Include:    pc.Config.Discovery.Include,
		Exclude:    pc.Config.Discovery.Exclude,
		Rules:      pc.Config.KindFor,
		Known:      doc.HasFile,
	})
}
