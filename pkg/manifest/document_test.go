package manifest

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoadIndexesDocument(t *testing.T) {
	doc := mustLoad(fixture())

	if got := doc.RootGroupID(); got != rootGroupID {
		t.Errorf("root group = %s, want %s (auto-detected from mainGroup)", got, rootGroupID)
	}

	tests := []struct {
		path string
		want string
	}{
		{"", rootGroupID},
		{"App", appGroupID},
		{"Features", featuresGroupID},
		{"Utilities", utilGroupID},
	}
	for _, tt := range tests {
		id, ok := doc.GroupID(tt.path)
		if !ok {
			t.Errorf("GroupID(%q) not resolved", tt.path)
			continue
		}
		if id != tt.want {
			t.Errorf("GroupID(%q) = %s, want %s", tt.path, id, tt.want)
		}
	}

	if !doc.HasFile("App/AppMain.swift") {
		t.Error("App/AppMain.swift should resolve through the App group")
	}
	if !doc.HasFile("Readme.md") {
		t.Error("Readme.md should resolve at the root")
	}
	if doc.HasFile("App/Missing.swift") {
		t.Error("unknown file reported as present")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	data := fixture()
	doc := mustLoad(data)
	if !bytes.Equal(doc.Bytes(), data) {
		t.Error("Bytes() is not byte-identical to the input")
	}

	// The same must hold without a trailing newline.
	trimmed := bytes.TrimSuffix(data, []byte("\n"))
	doc = mustLoad(trimmed)
	if !bytes.Equal(doc.Bytes(), trimmed) {
		t.Error("Bytes() altered a document with no trailing newline")
	}
}

func TestLoadMissingSection(t *testing.T) {
	data := strings.Replace(string(fixture()), "/* Begin PBXSourcesBuildPhase section */", "/* mangled */", 1)
	_, err := Load([]byte(data), DefaultConfig())
	var anchorErr *AnchorError
	if !asAnchorError(err, &anchorErr) {
		t.Fatalf("Load = %v, want *AnchorError", err)
	}
}

func TestLoadDuplicateSentinel(t *testing.T) {
	data := string(fixture()) + "\n/* End PBXGroup section */\n"
	_, err := Load([]byte(data), DefaultConfig())
	var anchorErr *AnchorError
	if !asAnchorError(err, &anchorErr) {
		t.Fatalf("Load = %v, want *AnchorError for duplicated sentinel", err)
	}
}

func TestLoadConfiguredRootGroup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootGroupID = appGroupID
	doc, err := Load(fixture(), cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.RootGroupID() != appGroupID {
		t.Errorf("root group = %s, want configured %s", doc.RootGroupID(), appGroupID)
	}
	// Paths now resolve relative to the configured root.
	if !doc.HasFile("AppMain.swift") {
		t.Error("AppMain.swift should resolve directly under the configured root")
	}
}

func TestLoadUnknownRootGroup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootGroupID = tid("A", 99)
	_, err := Load(fixture(), cfg)
	var anchorErr *AnchorError
	if !asAnchorError(err, &anchorErr) {
		t.Fatalf("Load = %v, want *AnchorError for unknown root group", err)
	}
}
