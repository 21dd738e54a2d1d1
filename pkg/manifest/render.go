package manifest

import "fmt"

// Record rendering. Shapes and indentation match what the manifest
// format emits itself, down to the tab counts, so inserted lines are
// indistinguishable from native ones.

func renderFileRef(id, name, typeTag string) string {
	return fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; path = %s; sourceTree = \"<group>\"; };",
		id, name, typeTag, quoteIfNeeded(name))
}

func renderBuildFile(id, name, fileID, phase string) string {
	return fmt.Sprintf("\t\t%s /* %s in %s */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };",
		id, name, phase, fileID, name)
}

func renderPhaseMember(id, name, phase string) string {
	return fmt.Sprintf("\t\t\t\t%s /* %s in %s */,", id, name, phase)
}

func renderChildRef(ref childRef) string {
	return fmt.Sprintf("\t\t\t\t%s /* %s */,", ref.id, ref.label)
}

func renderGroup(g *newGroup) []string {
	lines := []string{
		fmt.Sprintf("\t\t%s /* %s */ = {", g.id, g.name),
		"\t\t\tisa = PBXGroup;",
		"\t\t\tchildren = (",
	}
	for _, ref := range g.children {
		lines = append(lines, renderChildRef(ref))
	}
	lines = append(lines,
		"\t\t\t);",
		fmt.Sprintf("\t\t\tpath = %s;", quoteIfNeeded(g.name)),
		"\t\t\tsourceTree = \"<group>\";",
		"\t\t};",
	)
	return lines
}

// quoteIfNeeded wraps a value in double quotes when it contains
// characters the bare-token grammar does not allow.
func quoteIfNeeded(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-', c == '/':
		default:
			return fmt.Sprintf("%q", s)
		}
	}
	if s == "" {
		return `""`
	}
	return s
}
