package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ndkhanh/xcpatch/internal/gitctx"
	"github.com/ndkhanh/xcpatch/internal/patchrun"
	"github.com/ndkhanh/xcpatch/internal/report"
	"github.com/ndkhanh/xcpatch/pkg/logger"
)

func newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [file...]",
		Short: "Register files into the project manifest",
		Long: `Add registers the given files into the project manifest, creating
group records for directories the manifest has not seen yet. With no
arguments, the source root is scanned for unregistered files matching
the configured include globs.

File arguments are paths relative to the source root. Files already
present in the manifest are skipped, so repeated runs are safe.`,
		RunE: runAdd,
	}

	cmd.Flags().String("project", "", "Path to project.pbxproj (default: auto-detect)")
	cmd.Flags().String("source-root", "", "Directory file paths are relative to")
	cmd.Flags().Bool("dry-run", false, "Patch and validate in memory, write nothing")
	cmd.Flags().Bool("json", false, "Emit the summary as JSON")
	cmd.Flags().String("summary-template", "", "Handlebars template for the summary")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOut, _ := cmd.Flags().GetBool("json")
	template, _ := cmd.Flags().GetString("summary-template")

	pc, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	runner := patchrun.New(pc.ManifestPath, pc.Config.ManifestConfig(), dryRun)
	doc, err := runner.Load()
	if err != nil {
		return err
	}

	if gc := gitctx.Describe(pc.ManifestPath); gc != nil {
		logger.Debug("git context",
			logger.String("branch", gc.Branch),
			logger.String("sha", gc.SHA))
		if gc.ManifestDirty {
			logger.Warn("manifest has uncommitted changes, backup will be taken from the working copy")
		}
	}

	files, err := collectFiles(cmd.Context(), pc, doc, args)
	if err != nil {
		return err
	}

	sum, backup, err := runner.Run(doc, files)
	if err != nil {
		return err
	}

	rep := report.FromSummary(pc.ManifestPath, backup, dryRun, sum)
	out := cmd.OutOrStdout()
	switch {
	case jsonOut:
		return rep.RenderJSON(out)
	case template != "":
		return rep.RenderTemplate(out, template)
	default:
		return rep.Render(out)
	}
}
