// ABOUTME: Root command and global flags for the datastory CLI
// ABOUTME: Wires subcommands and sets up the shared logger
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	logger       = slog.Default()
)

const banner = `
██████╗  █████╗ ████████╗ █████╗ ███████╗████████╗ ██████╗ ██████╗ ██╗   ██╗
██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗╚██╗ ██╔╝
██║  ██║███████║   ██║   ███████║███████╗   ██║   ██║   ██║██████╔╝ ╚████╔╝
██║  ██║██╔══██║   ██║   ██╔══██║╚════██║   ██║   ██║   ██║██╔══██╗  ╚██╔╝
██████╔╝██║  ██║   ██║   ██║  ██║███████║   ██║   ╚██████╔╝██║  ██║   ██║
╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝   ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datastory",
		Short: "Turn a table into a data story",
		Long: banner + `
Datastory asks a language model for questions about a SQLite table,
answers them with SQL, and weaves the answers into a narrative report.

Configure OPENAI_API_KEY in the environment or a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("unknown format %q (want auto, text, or json)", outputFormat)
			}
			logger = newLogger(cmd.ErrOrStderr(), verbose, quiet)
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show progress and debug logs")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, or json")

	cmd.AddCommand(
		NewAnalyzeCmd(),
		NewSchemaCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
