// Command cbtstudy is a terminal front end for practising certification exam
// questions: browse and search parts, take graded tests, curate a blacklist and review
// study history.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cbt-study/internal/app"
	"github.com/p-n-ai/cbt-study/internal/platform/config"
	"github.com/p-n-ai/cbt-study/internal/platform/logger"
)

func main() {
	// Cancel in-flight fetches on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "cbtstudy",
		Short:         "Practise certification exam questions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		newFoldersCmd(),
		newQuestionsCmd(),
		newReviewCmd(),
		newTestCmd(),
		newBlacklistCmd(),
		newHistoryCmd(),
	)
	return root
}

// runFunc is a command body that needs the wired application.
type runFunc func(cmd *cobra.Command, args []string, a *app.App) error

// withApp loads configuration, opens the backends for the duration of fn and closes
// them afterwards.
func withApp(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format, cfg.Log.AddSource)

		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(cmd, args, a)
	}
}
