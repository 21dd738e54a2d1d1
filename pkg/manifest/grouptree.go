package manifest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type childRef struct {
	id    string
	label string
}

// newGroup is a group record scheduled for creation. Children
// accumulate in arrival order; the record is rendered once, when the
// whole patch is assembled.
type newGroup struct {
	id       string
	name     string
	path     string
	children []childRef
}

// treeBuilder maps directory paths onto the document's existing group
// hierarchy, synthesizing missing intermediate groups. Synthesized
// groups are memoized by path so every leaf assigned under the same
// new path lands in one group.
type treeBuilder struct {
	doc   *Document
	alloc *Allocator

	created map[string]*newGroup
	order   []*newGroup
	// appends collects child references to add to groups that already
	// exist in the document, keyed by group identifier.
	appends      map[string][]childRef
	appendsOrder []string
}

func newTreeBuilder(doc *Document, alloc *Allocator) *treeBuilder {
	return &treeBuilder{
		doc:     doc,
		alloc:   alloc,
		created: make(map[string]*newGroup),
		appends: make(map[string][]childRef),
	}
}

// place schedules ref as the last child of the group at dir, creating
// the group chain first when needed. Parents are always resolved
// before children, so a brand-new nested path materializes shallowest
// first.
func (b *treeBuilder) place(dir string, ref childRef) error {
	existingID, created, err := b.ensureGroup(strings.Trim(dir, "/"))
	if err != nil {
		return err
	}
	if created != nil {
		created.children = append(created.children, ref)
		return nil
	}
	b.appendTo(existingID, ref)
	return nil
}

// ensureGroup resolves dir to either an existing group ID or a
// scheduled new group, synthesizing ancestors as required.
func (b *treeBuilder) ensureGroup(dir string) (string, *newGroup, error) {
	if g, ok := b.created[dir]; ok {
		return "", g, nil
	}
	if id, ok := b.doc.GroupID(dir); ok {
		return id, nil, nil
	}
	if dir == "" {
		// Cannot happen after Load: the root group always resolves.
		return "", nil, &AnchorError{Anchor: "root group", Reason: "root group not resolved"}
	}

	parent := ""
	name := dir
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		parent, name = dir[:i], dir[i+1:]
	}

	parentID, parentNew, err := b.ensureGroup(parent)
	if err != nil {
		return "", nil, err
	}

	id, err := b.alloc.Allocate()
	if err != nil {
		return "", nil, err
	}
	g := &newGroup{id: id, name: norm.NFC.String(name), path: dir}
	b.created[dir] = g
	b.order = append(b.order, g)

	link := childRef{id: id, label: g.name}
	if parentNew != nil {
		parentNew.children = append(parentNew.children, link)
	} else {
		b.appendTo(parentID, link)
	}
	return "", g, nil
}

func (b *treeBuilder) appendTo(groupID string, ref childRef) {
	if _, seen := b.appends[groupID]; !seen {
		b.appendsOrder = append(b.appendsOrder, groupID)
	}
	b.appends[groupID] = append(b.appends[groupID], ref)
}
