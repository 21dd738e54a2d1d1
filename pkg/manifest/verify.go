package manifest

import (
	"fmt"
	"strings"
)

// Verify checks a candidate document against the original before
// anything is written: every configured sentinel must still occur
// exactly once, the line count must have grown by exactly the number
// of planned insertions, and every minted identifier must actually
// appear. A non-nil return means the candidate must be discarded and
// the original left on disk.
func Verify(original, candidate []byte, cfg Config, sum *Summary) error {
	var problems []string

	text := string(candidate)
	for name, marker := range cfg.Sections {
		for _, sentinel := range []string{marker.Begin, marker.End} {
			switch n := strings.Count(text, sentinel); n {
			case 1:
			case 0:
				problems = append(problems, fmt.Sprintf("section %s: sentinel %q missing", name, sentinel))
			default:
				problems = append(problems, fmt.Sprintf("section %s: sentinel %q appears %d times", name, sentinel, n))
			}
		}
	}

	origLines := strings.Count(string(original), "\n")
	candLines := strings.Count(text, "\n")
	if got, want := candLines-origLines, sum.LinesInserted; got != want {
		problems = append(problems, fmt.Sprintf("line delta %d, planned %d", got, want))
	}

	for _, a := range sum.Added {
		if !strings.Contains(text, a.FileID) {
			problems = append(problems, fmt.Sprintf("file entry %s (%s) missing from output", a.FileID, a.Path))
		}
		if a.BuildID != "" && !strings.Contains(text, a.BuildID) {
			problems = append(problems, fmt.Sprintf("build binding %s (%s) missing from output", a.BuildID, a.Path))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
