package manifest

import (
	"sort"
	"strings"
)

// Patch registers files into the manifest and returns the rewritten
// document. The input is deduplicated by path, and paths that already
// have a catalog entry are skipped, so repeated runs are no-ops.
//
// All anchors are located against the pre-mutation line numbering;
// insertions are gathered as a plan keyed by original line index and
// applied in one walk, so no insertion can shift an anchor consumed
// later in the same pass. If any required anchor is missing the engine
// returns an *AnchorError and no output: partial patches never exist,
// even in memory.
func (d *Document) Patch(files []NewFile) ([]byte, *Summary, error) {
	sum := &Summary{}

	alloc := NewAllocator(d)
	builder := newTreeBuilder(d, alloc)

	var catalogLines, bindingLines, memberLines []string

	seen := make(map[string]bool)
	for _, f := range files {
		path := strings.Trim(strings.TrimSpace(f.Path), "/")
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true

		if d.HasFile(path) {
			sum.Skipped = append(sum.Skipped, path)
			continue
		}

		dir, name := splitLeaf(path)

		fileID, err := alloc.Allocate()
		if err != nil {
			return nil, nil, err
		}
		catalogLines = append(catalogLines, renderFileRef(fileID, name, f.Type))

		added := AddedFile{Path: path, FileID: fileID, Group: dir}
		if f.Compile {
			buildID, err := alloc.Allocate()
			if err != nil {
				return nil, nil, err
			}
			bindingLines = append(bindingLines, renderBuildFile(buildID, name, fileID, d.cfg.PhaseName))
			memberLines = append(memberLines, renderPhaseMember(buildID, name, d.cfg.PhaseName))
			added.BuildID = buildID
		}

		if err := builder.place(dir, childRef{id: fileID, label: name}); err != nil {
			return nil, nil, err
		}
		sum.Added = append(sum.Added, added)
	}

	if len(sum.Added) == 0 {
		// Round-trip guarantee: nothing to insert, output is
		// byte-identical to the input.
		return d.Bytes(), sum, nil
	}

	plan := make(map[int][]string)
	insertBefore := func(idx int, lines ...string) {
		plan[idx] = append(plan[idx], lines...)
		sum.LinesInserted += len(lines)
	}

	insertBefore(d.sections[SectionFileReference].end, catalogLines...)
	if len(bindingLines) > 0 {
		insertBefore(d.sections[SectionBuildFile].end, bindingLines...)
	}

	if len(memberLines) > 0 {
		phase := d.sections[SectionSourcesPhase]
		open, err := findLine(d.lines, phase.begin, phase.end, "sources phase", "files = (")
		if err != nil {
			return nil, nil, err
		}
		closeIdx, err := findListClose(d.lines, open, "sources phase file list")
		if err != nil {
			return nil, nil, err
		}
		insertBefore(closeIdx, memberLines...)
	}

	groupSec := d.sections[SectionGroup]
	for _, gid := range builder.appendsOrder {
		g := d.groups[gid]
		if g.childOpen < 0 {
			return nil, nil, &AnchorError{Anchor: "group " + gid, Reason: "record has no child list"}
		}
		closeIdx, err := findListClose(d.lines, g.childOpen, "group "+gid+" child list")
		if err != nil {
			return nil, nil, err
		}
		refs := builder.appends[gid]
		lines := make([]string, 0, len(refs))
		for _, ref := range refs {
			lines = append(lines, renderChildRef(ref))
		}
		insertBefore(closeIdx, lines...)
	}

	var groupBlocks []string
	for _, g := range builder.order {
		groupBlocks = append(groupBlocks, renderGroup(g)...)
		sum.GroupsCreated = append(sum.GroupsCreated, g.path)
	}
	if len(groupBlocks) > 0 {
		insertBefore(groupSec.end, groupBlocks...)
	}
	sort.Strings(sum.GroupsCreated)

	out := make([]string, 0, len(d.lines)+sum.LinesInserted)
	for i, line := range d.lines {
		if ins, ok := plan[i]; ok {
			out = append(out, ins...)
		}
		out = append(out, line)
	}
	return d.join(out), sum, nil
}

func splitLeaf(path string) (dir, name string) {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}
