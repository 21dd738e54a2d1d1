package manifest

import (
	"regexp"
	"strings"
)

var (
	identPattern      = regexp.MustCompile(`\b[0-9A-F]{24}\b`)
	mainGroupPattern  = regexp.MustCompile(`mainGroup = ([0-9A-F]{24})`)
	fileRefPattern    = regexp.MustCompile(`^\s*([0-9A-F]{24}) /\* (.+?) \*/ = \{isa = PBXFileReference;.*path = (?:"([^"]*)"|([^;"]+));`)
	recordOpenPattern = regexp.MustCompile(`^\s*([0-9A-F]{24})(?: /\* (.+?) \*/)? = \{`)
	childRefPattern   = regexp.MustCompile(`^\s*([0-9A-F]{24})(?: /\* (.+?) \*/)?,$`)
	fieldPattern      = regexp.MustCompile(`^\s*(name|path) = (?:"([^"]*)"|([^;"]+));`)
)

type fileRef struct {
	id    string
	label string
	path  string
}

type groupRec struct {
	id       string
	label    string
	name     string
	path     string
	children []string
	line     int
	// childOpen is the line holding this record's "children = ("
	// opener, or -1 when the record has no child list.
	childOpen int
}

// displayName is the segment this group contributes to resolved paths:
// an explicit name wins over the path field, which wins over the label.
func (g *groupRec) displayName() string {
	switch {
	case g.name != "":
		return g.name
	case g.path != "":
		return g.path
	default:
		return g.label
	}
}

// Document is a loaded manifest: the raw lines plus indexes derived
// from a single linear scan. The indexes are the single source of
// truth for existing identifiers, cataloged paths, and the group tree;
// nothing is hard-coded across runs.
type Document struct {
	cfg   Config
	lines []string

	trailingNewline bool

	sections map[SectionName]span

	ids       map[string]struct{}
	fileRefs  map[string]*fileRef
	groups    map[string]*groupRec
	rootGroup string

	// resolved against the tree rooted at rootGroup
	groupByPath map[string]string
	filePaths   map[string]string
}

type span struct {
	begin, end int
}

// Load indexes raw manifest text. It fails with *AnchorError when any
// configured section sentinel is missing or duplicated, or when no
// root group can be determined.
func Load(data []byte, cfg Config) (*Document, error) {
	text := string(data)
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = strings.TrimSuffix(text, "\n")
	}

	d := &Document{
		cfg:             cfg,
		lines:           strings.Split(text, "\n"),
		trailingNewline: trailing,
		sections:        make(map[SectionName]span),
		ids:             make(map[string]struct{}),
		fileRefs:        make(map[string]*fileRef),
		groups:          make(map[string]*groupRec),
		groupByPath:     make(map[string]string),
		filePaths:       make(map[string]string),
	}

	for name, marker := range cfg.Sections {
		begin, end, err := findSection(d.lines, string(name), marker)
		if err != nil {
			return nil, err
		}
		d.sections[name] = span{begin: begin, end: end}
	}

	d.indexIdentifiers()
	d.indexFileRefs()
	d.indexGroups()

	if err := d.resolveRootGroup(); err != nil {
		return nil, err
	}
	d.resolveTree(d.rootGroup, "", map[string]bool{})

	return d, nil
}

// Bytes re-serializes the document exactly as loaded.
func (d *Document) Bytes() []byte {
	return d.join(d.lines)
}

func (d *Document) join(lines []string) []byte {
	text := strings.Join(lines, "\n")
	if d.trailingNewline {
		text += "\n"
	}
	return []byte(text)
}

// HasFile reports whether a catalog entry already resolves to the
// given source-root-relative path. This is the idempotence guard:
// patching a file that is already registered is a no-op.
func (d *Document) HasFile(path string) bool {
	_, ok := d.filePaths[strings.Trim(path, "/")]
	return ok
}

// GroupID returns the identifier of the existing group at the given
// slash-separated path ("" is the root group).
func (d *Document) GroupID(path string) (string, bool) {
	id, ok := d.groupByPath[strings.Trim(path, "/")]
	return id, ok
}

// RootGroupID returns the group that anchors path resolution.
func (d *Document) RootGroupID() string {
	return d.rootGroup
}

func (d *Document) indexIdentifiers() {
	for _, line := range d.lines {
		for _, id := range identPattern.FindAllString(line, -1) {
			d.ids[id] = struct{}{}
		}
	}
}

func (d *Document) indexFileRefs() {
	sec := d.sections[SectionFileReference]
	for i := sec.begin + 1; i < sec.end; i++ {
		m := fileRefPattern.FindStringSubmatch(d.lines[i])
		if m == nil {
			continue
		}
		path := m[3]
		if path == "" {
			path = m[4]
		}
		d.fileRefs[m[1]] = &fileRef{id: m[1], label: m[2], path: path}
	}
}

func (d *Document) indexGroups() {
	sec := d.sections[SectionGroup]
	i := sec.begin + 1
	for i < sec.end {
		m := recordOpenPattern.FindStringSubmatch(d.lines[i])
		if m == nil {
			i++
			continue
		}
		g := &groupRec{id: m[1], label: m[2], line: i, childOpen: -1}
		i++
		for i < sec.end && !strings.Contains(d.lines[i], "};") {
			line := d.lines[i]
			if strings.Contains(line, "children = (") {
				g.childOpen = i
				i++
				for i < sec.end {
					cm := childRefPattern.FindStringSubmatch(d.lines[i])
					if cm == nil {
						break
					}
					g.children = append(g.children, cm[1])
					i++
				}
				continue
			}
			if fm := fieldPattern.FindStringSubmatch(line); fm != nil {
				value := fm[2]
				if value == "" {
					value = fm[3]
				}
				if fm[1] == "name" {
					g.name = value
				} else {
					g.path = value
				}
			}
			i++
		}
		d.groups[g.id] = g
		i++
	}
}

func (d *Document) resolveRootGroup() error {
	if d.cfg.RootGroupID != "" {
		d.rootGroup = d.cfg.RootGroupID
	} else {
		for _, line := range d.lines {
			if m := mainGroupPattern.FindStringSubmatch(line); m != nil {
				d.rootGroup = m[1]
				break
			}
		}
	}
	if d.rootGroup == "" {
		return &AnchorError{Anchor: "root group", Reason: "no root group configured and no mainGroup declaration found"}
	}
	if _, ok := d.groups[d.rootGroup]; !ok {
		return &AnchorError{Anchor: "root group", Reason: "group record " + d.rootGroup + " not present in group section"}
	}
	return nil
}

// resolveTree walks the group hierarchy from the root, assigning each
// reachable group and file its full slash-separated path. The visited
// set guards against cycles in hand-mangled documents.
func (d *Document) resolveTree(id, prefix string, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true

	g, ok := d.groups[id]
	if !ok {
		return
	}
	d.groupByPath[prefix] = id

	for _, child := range g.children {
		if cg, ok := d.groups[child]; ok {
			d.resolveTree(child, joinPath(prefix, cg.displayName()), visited)
			continue
		}
		if fr, ok := d.fileRefs[child]; ok {
			d.filePaths[joinPath(prefix, fr.path)] = child
		}
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "/" + segment
}
