package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyluth/easel/internal/printer"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the tag index",
	Long: `Tags attach role labels such as "Segments" or "Summary Chat" to board items.

The board itself does not store them, so easel records a tag whenever it
creates a frame. Use these commands to inspect the index, repair a label by
hand, or drop labels whose items were deleted from the board.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded tags and their item ids",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsAddCmd = &cobra.Command{
	Use:     "add ITEM_ID TAG...",
	Short:   "Record tags for an item",
	Example: `  easel tags add 3458764612345678 "Segments"`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runTagsAdd,
}

var tagsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove tags whose items are no longer on the board",
	Args:  cobra.NoArgs,
	RunE:  runTagsPrune,
}

func init() {
	tagsCmd.AddCommand(tagsListCmd, tagsAddCmd, tagsPruneCmd)
	rootCmd.AddCommand(tagsCmd)
}

func runTagsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	mappings, err := sess.tags.AllMappings(ctx)
	if err != nil {
		return printer.Error("failed to read tags", err.Error(), nil)
	}

	if len(mappings) == 0 {
		printer.Warning("No tags recorded for board %s\n", sess.cfg.Board.ID)
		return nil
	}

	tags := make([]string, 0, len(mappings))
	for tag := range mappings {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := cmd.OutOrStdout()
	for _, tag := range tags {
		fmt.Fprintf(out, "%s: %s\n", tag, strings.Join(mappings[tag], ", "))
	}
	return nil
}

func runTagsAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	itemID, tags := args[0], args[1:]
	if err := sess.tags.Record(ctx, itemID, tags...); err != nil {
		return printer.Error("failed to record tags", err.Error(), nil)
	}

	printer.Success("Tagged %s with %s\n", itemID, strings.Join(tags, ", "))
	return nil
}

func runTagsPrune(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	snap, err := sess.snapshot(ctx)
	if err != nil {
		return err
	}

	removed, err := sess.tags.Prune(ctx, func(id string) bool {
		return snap.Get(id) != nil
	})
	if err != nil {
		return printer.Error("failed to prune tags", err.Error(), nil)
	}

	printer.Success("Pruned %d stale tag mappings\n", removed)
	return nil
}
