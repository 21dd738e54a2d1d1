package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndkhanh/xcpatch/pkg/config"
	"github.com/ndkhanh/xcpatch/pkg/exitcode"
)

func TestAddDiscoversAndPatches(t *testing.T) {
	dir := writeProject(t)

	out, err := runCommand("add", "--project", manifestPath(dir))
	require.NoError(t, err)

	assert.Contains(t, out, "Logger.swift")
	assert.Contains(t, readManifest(t, dir), "Logger.swift in Sources")

	backups, err := filepath.Glob(manifestPath(dir) + ".backup.*")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	saved, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.NotContains(t, string(saved), "Logger.swift", "backup must hold the pre-patch manifest")
}

func TestAddIsIdempotent(t *testing.T) {
	dir := writeProject(t)

	_, err := runCommand("add", "--project", manifestPath(dir))
	require.NoError(t, err)
	first := readManifest(t, dir)

	// Discovery drops files the manifest already knows.
	out, err := runCommand("add", "--project", manifestPath(dir))
	require.NoError(t, err)
	assert.Contains(t, out, "Registered 0 file(s)")
	assert.Equal(t, first, readManifest(t, dir), "second run must not change the manifest")

	// An explicit argument for a known file is skipped by the engine.
	out, err = runCommand("add", "--project", manifestPath(dir), "App/Logger.swift")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")
	assert.Equal(t, first, readManifest(t, dir))
}

func TestAddExplicitFile(t *testing.T) {
	dir := writeProject(t)
	notes := filepath.Join(dir, "MyApp", "App", "Notes.md")
	require.NoError(t, os.WriteFile(notes, []byte("# notes\n"), 0o644))

	_, err := runCommand("add", "--project", manifestPath(dir), "App/Notes.md")
	require.NoError(t, err)

	got := readManifest(t, dir)
	assert.Contains(t, got, "Notes.md")
	// Markdown stays out of the compile phase.
	assert.NotContains(t, got, "Notes.md in Sources")
	// Discovery was bypassed, so the unregistered Swift file stays out.
	assert.NotContains(t, got, "Logger.swift")
}

func TestAddDryRun(t *testing.T) {
	dir := writeProject(t)
	before := readManifest(t, dir)

	out, err := runCommand("add", "--project", manifestPath(dir), "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Would register")
	assert.Contains(t, out, "Logger.swift")
	assert.Equal(t, before, readManifest(t, dir))

	backups, err := filepath.Glob(manifestPath(dir) + ".backup.*")
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestAddJSONReport(t *testing.T) {
	dir := writeProject(t)

	out, err := runCommand("add", "--project", manifestPath(dir), "--dry-run", "--json")
	require.NoError(t, err)

	var rep struct {
		Added []struct {
			Path  string `json:"path"`
			Group string `json:"group"`
		} `json:"added"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Added, 1)
	assert.Equal(t, "App/Logger.swift", rep.Added[0].Path)
	assert.Equal(t, "App", rep.Added[0].Group)
}

func TestAddSummaryTemplate(t *testing.T) {
	dir := writeProject(t)

	out, err := runCommand("add", "--project", manifestPath(dir), "--dry-run",
		"--summary-template", "{{#each Added}}+{{Path}}{{/each}}")
	require.NoError(t, err)
	assert.Contains(t, out, "+App/Logger.swift")
}

func TestAddInvalidConfigExitsConfigError(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".xcpatch.yaml"),
		[]byte("root_group: not-a-hex-id\n"), 0o644))

	_, err := runCommand("add", "--project", manifestPath(dir), "--dry-run")
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, exitcode.ConfigError, exitCodeFor(err))
}

func TestAddMissingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand("add", "--project", filepath.Join(dir, "absent.pbxproj"))
	require.Error(t, err)
}
