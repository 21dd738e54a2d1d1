package manifest

import (
	"errors"
	"fmt"
	"strings"
)

func asAnchorError(err error, target **AnchorError) bool {
	return errors.As(err, target)
}

// Test identifiers are materialized through tid so every token is
// exactly identLen uppercase hex characters.
func tid(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, identLen-len(prefix), n)
}

var (
	rootGroupID     = tid("D", 1)
	appGroupID      = tid("D", 2)
	featuresGroupID = tid("D", 3)
	utilGroupID     = tid("D", 4)
	appMainRefID    = tid("F", 1)
	readmeRefID     = tid("F", 2)
	appMainBuildID  = tid("B", 1)
	projectObjID    = tid("C", 1)
	sourcesPhaseID  = tid("E", 1)
)

const fixtureTemplate = `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {

/* Begin PBXBuildFile section */
		@BF_MAIN@ /* AppMain.swift in Sources */ = {isa = PBXBuildFile; fileRef = @FR_MAIN@ /* AppMain.swift */; };
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		@FR_MAIN@ /* AppMain.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = AppMain.swift; sourceTree = "<group>"; };
		@FR_README@ /* Readme.md */ = {isa = PBXFileReference; lastKnownFileType = net.daringfireball.markdown; path = Readme.md; sourceTree = "<group>"; };
/* End PBXFileReference section */

/* Begin PBXGroup section */
		@G_ROOT@ = {
			isa = PBXGroup;
			children = (
				@G_APP@ /* App */,
				@G_FEATURES@ /* Features */,
				@G_UTIL@ /* Utilities */,
				@FR_README@ /* Readme.md */,
			);
			sourceTree = "<group>";
		};
		@G_APP@ /* App */ = {
			isa = PBXGroup;
			children = (
				@FR_MAIN@ /* AppMain.swift */,
			);
			path = App;
			sourceTree = "<group>";
		};
		@G_FEATURES@ /* Features */ = {
			isa = PBXGroup;
			children = (
			);
			path = Features;
			sourceTree = "<group>";
		};
		@G_UTIL@ /* Utilities */ = {
			isa = PBXGroup;
			children = (
			);
			path = Utilities;
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXProject section */
		@PROJ@ /* Project object */ = {
			isa = PBXProject;
			buildSettings = {
			};
			mainGroup = @G_ROOT@;
		};
/* End PBXProject section */

/* Begin PBXSourcesBuildPhase section */
		@PH_SOURCES@ /* Sources */ = {
			isa = PBXSourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
				@BF_MAIN@ /* AppMain.swift in Sources */,
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXSourcesBuildPhase section */
	};
	rootObject = @PROJ@ /* Project object */;
}
`

func fixture() []byte {
	r := strings.NewReplacer(
		"@G_ROOT@", rootGroupID,
		"@G_APP@", appGroupID,
		"@G_FEATURES@", featuresGroupID,
		"@G_UTIL@", utilGroupID,
		"@FR_MAIN@", appMainRefID,
		"@FR_README@", readmeRefID,
		"@BF_MAIN@", appMainBuildID,
		"@PROJ@", projectObjID,
		"@PH_SOURCES@", sourcesPhaseID,
	)
	return []byte(r.Replace(fixtureTemplate))
}

func mustLoad(data []byte) *Document {
	doc, err := Load(data, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return doc
}
