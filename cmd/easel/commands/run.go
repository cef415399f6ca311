package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/easel/internal/agent"
	"github.com/dyluth/easel/internal/llm"
	"github.com/dyluth/easel/internal/poller"
	"github.com/dyluth/easel/internal/printer"
)

var (
	runOnce     bool
	runInterval time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the board and act on changes",
	Long: `Poll the board and run one decision cycle per poll.

The board is read once at start-up as the baseline, so existing content is
not treated as a change. Each later poll that differs from the baseline is
handed to the language model, which picks the next action.

With --once, a single cycle runs against an empty baseline: the current board
always counts as changed, which is useful for trying a decision by hand.

Stop with Ctrl-C. A cycle in progress is allowed to finish its request.`,
	Example: `  # Watch the board configured in easel.yml
  easel run

  # Poll every 10 seconds with the offline model
  LLM_PROVIDER=fake easel run --interval 10s

  # Decide once and exit
  easel run --once`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single cycle against an empty baseline and exit")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "Override poll.interval_seconds (e.g. 10s)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	cfg := sess.cfg

	collab, err := llm.New(ctx, llm.Options{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		Timeout:   cfg.LLMTimeout(),
		FakeLabel: cfg.LLM.FakeLabel,
	})
	if err != nil {
		return printer.Error("failed to create language model client", err.Error(), []string{"Check llm.provider and GEMINI_API_KEY"})
	}

	ag, err := agent.New(agent.Config{
		BoardID:  cfg.Board.ID,
		API:      sess.client,
		Loader:   sess.loader,
		Tags:     sess.tags,
		Decider:  collab,
		Proposer: collab,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	interval := cfg.Interval()
	if runInterval > 0 {
		interval = runInterval
	}

	p, err := poller.New(poller.Config{
		BoardID:  cfg.Board.ID,
		Loader:   sess.loader,
		Agent:    ag,
		Interval: interval,
	})
	if err != nil {
		return fmt.Errorf("failed to create poller: %w", err)
	}

	if runOnce {
		result, err := p.PollOnce(ctx)
		if err != nil {
			return printer.Error("cycle failed", err.Error(), nil)
		}
		printer.Success("Cycle finished: %s\n", result.Action)
		return nil
	}

	if cfg.HealthAddr != "" {
		health := poller.NewHealthServer(cfg.HealthAddr, p, sess.tags)
		if err := health.Start(); err != nil {
			return printer.Error(
				"failed to start health server",
				err.Error(),
				[]string{"Choose another address with health_addr or EASEL_HEALTH_ADDR"},
			)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			health.Shutdown(shutdownCtx)
		}()
	}

	if err := p.Prime(ctx); err != nil {
		return printer.Error(
			"failed to read the board",
			err.Error(),
			[]string{"Check MIRO_API_TOKEN and board.id", "Run 'easel board list' to test access"},
		)
	}

	printer.Step("Watching board %s every %s using %s (Ctrl-C to stop)\n", cfg.Board.ID, interval, collab.Name())
	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("poller stopped: %w", err)
	}
	printer.Success("Stopped\n")
	return nil
}
