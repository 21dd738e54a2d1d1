// Package report renders the outcome of a patch run for humans,
// scripts (JSON), and custom handlebars templates.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/mattn/go-runewidth"

	"github.com/ndkhanh/xcpatch/pkg/manifest"
)

// Report is the renderable view of one run.
type Report struct {
	Manifest      string               `json:"manifest"`
	Backup        string               `json:"backup,omitempty"`
	DryRun        bool                 `json:"dry_run"`
	Added         []manifest.AddedFile `json:"added"`
	Skipped       []string             `json:"skipped,omitempty"`
	GroupsCreated []string             `json:"groups_created,omitempty"`
}

// FromSummary builds a Report from the patcher's summary.
func FromSummary(manifestPath, backupPath string, dryRun bool, sum *manifest.Summary) *Report {
	return &Report{
		Manifest:      manifestPath,
		Backup:        backupPath,
		DryRun:        dryRun,
		Added:         sum.Added,
		Skipped:       sum.Skipped,
		GroupsCreated: sum.GroupsCreated,
	}
}

// RenderJSON writes the report as a single JSON document.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderTemplate renders the report through a user-supplied handlebars
// template.
func (r *Report) RenderTemplate(w io.Writer, tpl string) error {
	out, err := raymond.Render(tpl, r)
	if err != nil {
		return fmt.Errorf("rendering summary template: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Render writes the default human-readable summary.
func (r *Report) Render(w io.Writer) error {
	var b strings.Builder

	verb := "Registered"
	if r.DryRun {
		verb = "Would register"
	}
	fmt.Fprintf(&b, "%s %d file(s) in %s\n", verb, len(r.Added), r.Manifest)

	if len(r.Added) > 0 {
		b.WriteString("\n")
		pathW, groupW := runewidth.StringWidth("FILE"), runewidth.StringWidth("GROUP")
		for _, a := range r.Added {
			pathW = maxInt(pathW, runewidth.StringWidth(a.Path))
			groupW = maxInt(groupW, runewidth.StringWidth(groupLabel(a.Group)))
		}
		writeRow(&b, pathW, groupW, "FILE", "GROUP", "COMPILED")
		for _, a := range r.Added {
			compiled := "no"
			if a.BuildID != "" {
				compiled = "yes"
			}
			writeRow(&b, pathW, groupW, a.Path, groupLabel(a.Group), compiled)
		}
	}

	if len(r.GroupsCreated) > 0 {
		b.WriteString("\nNew groups:\n")
		for _, g := range r.GroupsCreated {
			fmt.Fprintf(&b, "  + %s\n", g)
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\nAlready registered (skipped): %d\n", len(r.Skipped))
	}
	if r.Backup != "" {
		fmt.Fprintf(&b, "\nBackup: %s\n", r.Backup)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeRow pads with display width, not byte length, so multi-width
// filenames keep the columns aligned.
func writeRow(b *strings.Builder, pathW, groupW int, path, group, compiled string) {
	b.WriteString("  ")
	b.WriteString(path)
	b.WriteString(strings.Repeat(" ", pathW-runewidth.StringWidth(path)+2))
	b.WriteString(group)
	b.WriteString(strings.Repeat(" ", groupW-runewidth.StringWidth(group)+2))
	b.WriteString(compiled)
	b.WriteString("\n")
}

func groupLabel(group string) string {
	if group == "" {
		return "(root)"
	}
	return group
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
