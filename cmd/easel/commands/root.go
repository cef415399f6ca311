package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/easel/internal/config"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "easel",
	Short: "Easel - an agent that co-edits a marketing whiteboard",
	Long: `Easel watches a Miro board and acts on it.

It polls the board, notices when something changed, asks a language model
what the user wants, and then edits the board: it lays out the marketing
sections, proposes customer segments and channels, and writes a plan.

Role labels for the frames it creates are kept in a local tag index
(SQLite by default, or Redis).`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command.
func Execute() error {
	// Errors are printed by the printer package with colour
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to easel.yml (environment only if the file is missing)")
}
