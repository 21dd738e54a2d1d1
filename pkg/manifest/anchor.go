package manifest

import (
	"fmt"
	"strings"
)

// findSection locates a sentinel pair. Each sentinel must occur
// exactly once and begin must precede end; anything else is an
// *AnchorError, never a guess at a nearby line.
func findSection(lines []string, name string, m Marker) (begin, end int, err error) {
	begin, end = -1, -1
	for i, line := range lines {
		if strings.Contains(line, m.Begin) {
			if begin >= 0 {
				return 0, 0, &AnchorError{Anchor: name, Reason: fmt.Sprintf("begin sentinel duplicated at lines %d and %d", begin+1, i+1)}
			}
			begin = i
		}
		if strings.Contains(line, m.End) {
			if end >= 0 {
				return 0, 0, &AnchorError{Anchor: name, Reason: fmt.Sprintf("end sentinel duplicated at lines %d and %d", end+1, i+1)}
			}
			end = i
		}
	}
	if begin < 0 {
		return 0, 0, &AnchorError{Anchor: name, Reason: "begin sentinel not found"}
	}
	if end < 0 {
		return 0, 0, &AnchorError{Anchor: name, Reason: "end sentinel not found"}
	}
	if end < begin {
		return 0, 0, &AnchorError{Anchor: name, Reason: "end sentinel precedes begin sentinel"}
	}
	return begin, end, nil
}

// findLine returns the first line in [from, to) containing substr.
func findLine(lines []string, from, to int, name, substr string) (int, error) {
	for i := from; i < to && i < len(lines); i++ {
		if strings.Contains(lines[i], substr) {
			return i, nil
		}
	}
	return 0, &AnchorError{Anchor: name, Reason: fmt.Sprintf("%q not found between lines %d and %d", substr, from+1, to+1)}
}

// findListClose returns the line holding the parenthesis that closes
// the list opened on line open. Nesting depth is tracked across lines
// so a group whose child list contains further parenthesized material
// does not close early; parentheses inside quoted strings and block
// comments are ignored.
func findListClose(lines []string, open int, name string) (int, error) {
	depth := scanDelims(lines[open], 0)
	if depth <= 0 {
		return 0, &AnchorError{Anchor: name, Reason: fmt.Sprintf("line %d does not open a list", open+1)}
	}
	for i := open + 1; i < len(lines); i++ {
		depth = scanDelims(lines[i], depth)
		if depth <= 0 {
			return i, nil
		}
	}
	return 0, &AnchorError{Anchor: name, Reason: fmt.Sprintf("list opened at line %d is never closed", open+1)}
}

// scanDelims folds one line into the running parenthesis depth.
// String literals honor backslash escapes; /* */ comments are assumed
// not to span lines, which holds for the record labels this format
// uses them for.
func scanDelims(line string, depth int) int {
	inString := false
	inComment := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inComment:
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				inComment = false
				i++
			}
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			inComment = true
			i++
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return depth
}
