package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ndkhanh/xcpatch/internal/patchrun"
	"github.com/ndkhanh/xcpatch/internal/report"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report what add would register, without writing",
		Long: `Check validates the manifest's section anchors and reports the files
an add run would register. The manifest is never modified. A manifest
whose anchors cannot be located fails the check.`,
		RunE: runCheck,
	}

	cmd.Flags().String("project", "", "Path to project.pbxproj (default: auto-detect)")
	cmd.Flags().String("source-root", "", "Directory file paths are relative to")
	cmd.Flags().Bool("json", false, "Emit the summary as JSON")
	cmd.Flags().String("summary-template", "", "Handlebars template for the summary")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	template, _ := cmd.Flags().GetString("summary-template")

	pc, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	// Loading validates every configured anchor, which is the check.
	runner := patchrun.New(pc.ManifestPath, pc.Config.ManifestConfig(), true)
	doc, err := runner.Load()
	if err != nil {
		return err
	}

	files, err := collectFiles(cmd.Context(), pc, doc, args)
	if err != nil {
		return err
	}

	sum, _, err := runner.Run(doc, files)
	if err != nil {
		return err
	}

	rep := report.FromSummary(pc.ManifestPath, "", true, sum)
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
