package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/easel/internal/filter"
	"github.com/dyluth/easel/internal/inspect"
	"github.com/dyluth/easel/internal/printer"
	"github.com/dyluth/easel/internal/resolver"
	"github.com/dyluth/easel/internal/timespec"
)

var (
	boardOutputFormat string
	boardType         string
	boardTag          string
	boardContains     string
	boardSince        string
	boardUntil        string
	boardChatOnly     bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Inspect the board as the agent sees it",
	Long: `Inspect the current board snapshot with recorded tags overlaid.

Subcommands:
  list - items as a table or JSONL, with filters
  get  - one item as JSON (unique id prefixes accepted)
  tree - the parent/child hierarchy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List board items",
	Example: `  # Every frame
  easel board list --type frame

  # Sticky notes changed in the last hour, as JSONL for jq
  easel board list --type 'sticky*' --since 1h -o jsonl | jq .data.content

  # The item tagged as the segments frame
  easel board list --tag Segments`,
	Args: cobra.NoArgs,
	RunE: runBoardList,
}

var boardGetCmd = &cobra.Command{
	Use:   "get ITEM_ID",
	Short: "Show one item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardGet,
}

var boardTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the item hierarchy",
	Args:  cobra.NoArgs,
	RunE:  runBoardTree,
}

func init() {
	boardListCmd.Flags().StringVarP(&boardOutputFormat, "output", "o", "default", "Output format: default or jsonl")
	boardListCmd.Flags().StringVar(&boardType, "type", "", "Filter by item type (glob pattern)")
	boardListCmd.Flags().StringVar(&boardTag, "tag", "", "Filter by recorded tag (exact match)")
	boardListCmd.Flags().StringVar(&boardContains, "contains", "", "Filter by content substring (case-insensitive)")
	boardListCmd.Flags().StringVar(&boardSince, "since", "", "Items modified after time (duration or RFC3339)")
	boardListCmd.Flags().StringVar(&boardUntil, "until", "", "Items modified before time (duration or RFC3339)")

	boardTreeCmd.Flags().BoolVar(&boardChatOnly, "chat", false, "Only show chat frames")

	boardCmd.AddCommand(boardListCmd, boardGetCmd, boardTreeCmd)
	rootCmd.AddCommand(boardCmd)
}

func runBoardList(cmd *cobra.Command, args []string) error {
	var format inspect.OutputFormat
	switch boardOutputFormat {
	case "default":
		format = inspect.OutputFormatDefault
	case "jsonl":
		format = inspect.OutputFormatJSONL
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", boardOutputFormat),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	since, until, err := timespec.ParseRange(boardSince, boardUntil, time.Now())
	if err != nil {
		return printer.Error("invalid time range", err.Error(), []string{"Use a duration like 1h30m or an RFC3339 time"})
	}

	criteria := &filter.Criteria{
		Since:    since,
		Until:    until,
		TypeGlob: boardType,
		Tag:      boardTag,
		Contains: boardContains,
	}

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

	return inspect.ListItems(snap, sess.cfg.Board.ID, format, criteria, cmd.OutOrStdout())
}

func runBoardGet(cmd *cobra.Command, args []string) error {
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

	id, err := resolver.ResolveItemID(snap, args[0])
	if err != nil {
		var amb *resolver.AmbiguousError
		if errors.As(err, &amb) {
			return printer.Error("ambiguous item id", resolver.FormatAmbiguousError(amb), nil)
		}
		return printer.Error(
			"item not found",
			err.Error(),
			[]string{"List item ids:\n  easel board list"},
		)
	}

	return inspect.GetItem(snap, id, cmd.OutOrStdout())
}

func runBoardTree(cmd *cobra.Command, args []string) error {
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

	if snap.IsEmpty() {
		printer.Warning("Board %s is empty\n", sess.cfg.Board.ID)
		return nil
	}
	inspect.Tree(snap, boardChatOnly, cmd.OutOrStdout())
	return nil
}
