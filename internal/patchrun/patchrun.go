// Package patchrun drives one patch invocation end to end: read,
// back up, patch, validate, write. A run either fully applies and
// passes validation, or leaves the manifest exactly as it was.
package patchrun

import (
	"fmt"
	"os"
	"time"

	"github.com/ndkhanh/xcpatch/pkg/logger"
	"github.com/ndkhanh/xcpatch/pkg/manifest"
	"github.com/ndkhanh/xcpatch/pkg/safeio"
)

// Runner holds the fixed inputs of one invocation. Concurrent runs
// against the same manifest are unsafe; callers serialize externally.
type Runner struct {
	ManifestPath string
	Config       manifest.Config
	// DryRun patches and validates in memory but writes nothing.
	DryRun bool
	// now is injectable for deterministic backup names in tests;
	// write is injectable so tests can fail the final replacement.
	now   func() time.Time
	write func(path string, data []byte) error
}

// New returns a Runner for the given manifest.
func New(manifestPath string, cfg manifest.Config, dryRun bool) *Runner {
	return &Runner{
		ManifestPath: manifestPath,
		Config:       cfg,
		DryRun:       dryRun,
		now:          time.Now,
		write:        safeio.WriteFileAtomic,
	}
}

// Load reads and indexes the manifest. Exposed separately so callers
// can consult the document (known paths, groups) before discovering
// candidate files.
func (r *Runner) Load() (*manifest.Document, error) {
	data, err := os.ReadFile(r.ManifestPath) // #nosec G304 -- the manifest path is the tool's input
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	doc, err := manifest.Load(data, r.Config)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Run patches the manifest with the given files. On success the
// manifest is atomically replaced and the backup path is returned;
// the backup is retained either way. Any failure leaves the on-disk
// manifest byte-identical to its pre-run state.
func (r *Runner) Run(doc *manifest.Document, files []manifest.NewFile) (*manifest.Summary, string, error) {
	original := doc.Bytes()

	patched, sum, err := doc.Patch(files)
	if err != nil {
		return nil, "", err
	}
	if err := manifest.Verify(original, patched, r.Config, sum); err != nil {
		return nil, "", err
	}

	if r.DryRun || !sum.Changed() {
		return sum, "", nil
	}

	backupPath := fmt.Sprintf("%s.backup.%s", r.ManifestPath, r.now().Format("20060102_150405"))
	if err := safeio.CopyFile(r.ManifestPath, backupPath); err != nil {
		return nil, "", fmt.Errorf("creating backup: %w", err)
	}
	logger.Debug("backup written", logger.String("path", backupPath))

	if err := r.write(r.ManifestPath, patched); err != nil {
		// The atomic rename makes a torn write unlikely, but if the
		// replacement failed after any mutation the backup is the
		// source of truth.
		if rerr := safeio.CopyFile(backupPath, r.ManifestPath); rerr != nil {
			return nil, backupPath, fmt.Errorf("writing manifest: %w (restore also failed: %v)", err, rerr)
		}
		return nil, backupPath, fmt.Errorf("writing manifest (restored from backup): %w", err)
	}

	logger.Info("manifest patched",
		logger.String("path", r.ManifestPath),
		logger.Int("files", len(sum.Added)),
		logger.Int("groups", len(sum.GroupsCreated)))
	return sum, backupPath, nil
}
