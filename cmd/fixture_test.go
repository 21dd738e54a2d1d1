package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const projectTemplate = `// !$*UTF8*$!
{
	archiveVersion = 1;
	objectVersion = 56;
	objects = {

/* Begin PBXBuildFile section */
		@MAINBUILD@ /* AppMain.swift in Sources */ = {isa = PBXBuildFile; fileRef = @MAINREF@ /* AppMain.swift */; };
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		@MAINREF@ /* AppMain.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = AppMain.swift; sourceTree = "<group>"; };
/* End PBXFileReference section */

/* Begin PBXGroup section */
		@ROOT@ = {
			isa = PBXGroup;
			children = (
				@APP@ /* App */,
			);
			sourceTree = "<group>";
		};
		@APP@ /* App */ = {
			isa = PBXGroup;
			children = (
				@MAINREF@ /* AppMain.swift */,
			);
			path = App;
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXSourcesBuildPhase section */
		@PHASE@ /* Sources */ = {
			isa = PBXSourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
				@MAINBUILD@ /* AppMain.swift in Sources */,
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXSourcesBuildPhase section */

	};
	rootObject = @PROJ@ /* Project object */;
}
`

func tid(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, 24-len(prefix), n)
}

// writeProject lays out a minimal Xcode-style project tree:
//
//	<dir>/.xcpatch.yaml
//	<dir>/MyApp.xcodeproj/project.pbxproj
//	<dir>/MyApp/App/AppMain.swift   (registered)
//	<dir>/MyApp/App/Logger.swift    (unregistered)
//
// and returns the container directory.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r := strings.NewReplacer(
		"@ROOT@", tid("AA", 1),
		"@APP@", tid("AA", 2),
		"@PHASE@", tid("AA", 3),
		"@PROJ@", tid("AA", 4),
		"@MAINREF@", tid("BB", 1),
		"@MAINBUILD@", tid("CC", 1),
	)

	wrapper := filepath.Join(dir, "MyApp.xcodeproj")
	require.NoError(t, os.MkdirAll(wrapper, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(wrapper, "project.pbxproj"),
		[]byte(r.Replace(projectTemplate)), 0o644))

	app := filepath.Join(dir, "MyApp", "App")
	require.NoError(t, os.MkdirAll(app, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app, "AppMain.swift"), []byte("// main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(app, "Logger.swift"), []byte("// logger\n"), 0o644))

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".xcpatch.yaml"),
		[]byte("root_group: "+tid("AA", 1)+"\n"), 0o644))

	return dir
}

func manifestPath(dir string) string {
	return filepath.Join(dir, "MyApp.xcodeproj", "project.pbxproj")
}

func readManifest(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(manifestPath(dir))
	require.NoError(t, err)
	return string(data)
}

// runCommand executes a fresh command tree and captures its output.
func runCommand(args ...string) (string, error) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
