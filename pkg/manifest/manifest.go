// Package manifest implements surgical, order-preserving edits to
// Xcode-style project manifests (project.pbxproj and compatible
// dialects). The document is never parsed into a full object model:
// records are inserted by locating section sentinels and
// delimiter-balanced list ranges in the raw text, so every byte of
// unrelated content survives the rewrite.
package manifest

// SectionName identifies one of the four structural regions the
// patcher touches.
type SectionName string

const (
	// SectionFileReference is the file catalog (PBXFileReference records).
	SectionFileReference SectionName = "file_reference"
	// SectionBuildFile is the build-binding catalog (PBXBuildFile records).
	SectionBuildFile SectionName = "build_file"
	// SectionSourcesPhase is the compile phase (PBXSourcesBuildPhase records).
	SectionSourcesPhase SectionName = "sources_phase"
	// SectionGroup is the group-tree definition (PBXGroup records).
	SectionGroup SectionName = "group"
)

// Marker holds the literal begin/end sentinel lines bounding a section.
type Marker struct {
	Begin string
	End   string
}

// Config carries the structural knowledge the patcher needs about a
// manifest dialect. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// RootGroupID is the group that receives entries with no
	// directory component. Empty means auto-detect from the
	// document's mainGroup declaration.
	RootGroupID string
	// PhaseName is the display name of the build phase new bindings
	// join, used in record labels ("Foo.swift in Sources").
	PhaseName string
	// Sections maps each patched region to its sentinel pair.
	Sections map[SectionName]Marker
}

// DefaultConfig returns the stock pbxproj dialect.
func DefaultConfig() Config {
	return Config{
		PhaseName: "Sources",
		Sections: map[SectionName]Marker{
			SectionFileReference: {
				Begin: "/* Begin PBXFileReference section */",
				End:   "/* End PBXFileReference section */",
			},
			SectionBuildFile: {
				Begin: "/* Begin PBXBuildFile section */",
				End:   "/* End PBXBuildFile section */",
			},
			SectionSourcesPhase: {
				Begin: "/* Begin PBXSourcesBuildPhase section */",
				End:   "/* End PBXSourcesBuildPhase section */",
			},
			SectionGroup: {
				Begin: "/* Begin PBXGroup section */",
				End:   "/* End PBXGroup section */",
			},
		},
	}
}

// NewFile describes one file to register. Path is slash-separated and
// relative to the manifest's source root; Type is the catalog
// content-type tag; Compile marks membership in the build phase.
type NewFile struct {
	Path    string
	Type    string
	Compile bool
}

// AddedFile records the identifiers minted for one registered file.
type AddedFile struct {
	Path    string `json:"path"`
	FileID  string `json:"file_id"`
	BuildID string `json:"build_id,omitempty"`
	Group   string `json:"group"`
}

// Summary reports what a patch run did (or, in dry-run mode, would do).
type Summary struct {
	Added         []AddedFile `json:"added"`
	Skipped       []string    `json:"skipped,omitempty"`
	GroupsCreated []string    `json:"groups_created,omitempty"`
	LinesInserted int         `json:"lines_inserted"`
}

// Changed reports whether the run produced any insertions.
func (s *Summary) Changed() bool {
	return s != nil && len(s.Added) > 0
}
