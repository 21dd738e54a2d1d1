package cmd

import (
	"errors"
	"os"

	"github.com/ndkhanh/xcpatch/pkg/buildinfo"
	"github.com/ndkhanh/xcpatch/pkg/config"
	"github.com/ndkhanh/xcpatch/pkg/exitcode"
	"github.com/ndkhanh/xcpatch/pkg/logger"
	"github.com/ndkhanh/xcpatch/pkg/manifest"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// The factory pattern lets tests build isolated command trees without
// shared flag state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xcpatch",
		Short: "Register new files into an Xcode project manifest",
		Long: `Xcpatch registers newly added source files into a project.pbxproj
build manifest by surgical text insertion: existing bytes are never
rewritten, and a run either fully applies or changes nothing.

Examples:
   xcpatch add              # Discover and register unlisted files
   xcpatch add App/New.swift
   xcpatch check            # Report what would be added, write nothing
   xcpatch version          # Show version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("xcpatch {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// Called from init() for production and explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the distinct error kinds of a patch run onto exit
// codes so callers can branch without parsing messages.
func exitCodeFor(err error) int {
	var anchorErr *manifest.AnchorError
	var validationErr *manifest.ValidationError
	var configErr *config.ConfigError
	switch {
	case errors.As(err, &anchorErr):
		return exitcode.AnchorError
	case errors.As(err, &validationErr):
		return exitcode.ValidationError
	case errors.As(err, &configErr):
		return exitcode.ConfigError
	case errors.Is(err, manifest.ErrIdentifierExhausted):
		return exitcode.ValidationError
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on the global flags.
func initializeLogger(cmd *cobra.Command) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger.Initialize(logger.Config{
		Level:    logger.ParseLevel(levelStr),
		UseColor: !noColor,
		JSON:     jsonLogs,
	})
}
