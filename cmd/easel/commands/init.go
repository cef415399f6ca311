package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dyluth/easel/internal/printer"
	"github.com/dyluth/easel/internal/scaffold"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter easel.yml and .env.example",
	Long: `Write a starter easel.yml and .env.example into the directory of --config.

Fill in board.id, then put MIRO_API_TOKEN and GEMINI_API_KEY in .env
(copy .env.example). Existing files are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := filepath.Dir(configPath)

	created, err := scaffold.Initialize(dir, initForce)
	if err != nil {
		return printer.Error("failed to initialize", err.Error(), nil)
	}

	for _, name := range created {
		printer.Success("Created %s\n", filepath.Join(dir, name))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "  1. Set board.id in easel.yml")
	fmt.Fprintln(cmd.OutOrStdout(), "  2. Copy .env.example to .env and fill in the tokens")
	fmt.Fprintln(cmd.OutOrStdout(), "  3. Run 'easel run'")
	return nil
}
