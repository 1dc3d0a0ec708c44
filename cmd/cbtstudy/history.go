package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cbt-study/internal/app"
	"github.com/p-n-ai/cbt-study/internal/results"
)

func newHistoryCmd() *cobra.Command {
	var folder, export string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show study history",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			h := a.Results.History(cmd.Context())
			if folder != "" {
				h = results.Summarize(a.Results.ByFolder(cmd.Context(), folder))
			}

			if export != "" {
				return exportHistory(export, h)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tests taken: %d\naverage score: %d%%\n", h.TotalTestsTaken, h.AverageScore)
			if h.LastTestDate != nil {
				fmt.Fprintf(out, "last test: %s\n", h.LastTestDate.Local().Format("2006-01-02 15:04"))
			}
			if len(h.TestResults) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFOLDER\tPARTS\tSCORE\tCORRECT\tMINUTES\tCOMPLETED")
			for _, r := range h.TestResults {
				minutes := "-"
				if r.TimeSpent != nil {
					minutes = fmt.Sprint(*r.TimeSpent)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%d/%d\t%s\t%s\n",
					r.ID, r.FolderName, joinInts(r.SelectedParts), r.Score,
					r.CorrectAnswers, r.TotalQuestions, minutes, r.CompletedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&folder, "folder", "", "only include results from this folder")
	cmd.Flags().StringVar(&export, "export", "", "write the history to an .xlsx file instead of printing it")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one test result",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
				if err := a.Results.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every test result",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
				if err := a.Results.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}),
		},
	)
	return cmd
}

func exportHistory(path string, h results.History) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return results.ExportXLSX(f, h)
}

func joinInts(xs []int) string {
	s := make([]string, len(xs))
	for i, x := range xs {
		s[i] = fmt.Sprint(x)
	}
	return strings.Join(s, ",")
}
