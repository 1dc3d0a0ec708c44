package main

import (
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cbt-study/internal/app"
	"github.com/p-n-ai/cbt-study/internal/blacklist"
)

func newBlacklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage questions excluded from tests",
	}
	cmd.AddCommand(
		newBlacklistAddCmd(),
		newBlacklistRemoveCmd(),
		newBlacklistListCmd(),
		newBlacklistStatsCmd(),
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every blacklist entry",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
				if err := a.Blacklist.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "blacklist cleared")
				return nil
			}),
		},
	)
	return cmd
}

func newBlacklistAddCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "add <folder> <part> <number>",
		Short: "Exclude a question, addressed by its number in `questions --all`",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			part, err := parsePart(args[1])
			if err != nil {
				return err
			}
			qs := a.Loader.LoadPart(cmd.Context(), args[0], part, true)
			n, err := strconv.Atoi(args[2])
			if err != nil || n < 1 || n > len(qs) {
				return fmt.Errorf("question number must be between 1 and %d, got %q", len(qs), args[2])
			}

			q := qs[n-1]
			if err := a.Blacklist.Add(cmd.Context(), args[0], part, q, reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "blacklisted %s: %s\n", q.ID, q.Question)
			return nil
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the question is excluded")
	return cmd
}

func newBlacklistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Restore a blacklisted question",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ctx := cmd.Context()
			known := slices.ContainsFunc(a.Blacklist.ListByFolder(ctx, ""), func(e blacklist.Entry) bool {
				return e.ID == args[0]
			})
			if !known {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not blacklisted\n", args[0])
				return nil
			}
			if err := a.Blacklist.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		}),
	}
}

func newBlacklistListCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blacklisted questions, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			entries := a.Blacklist.ListByFolder(cmd.Context(), folder)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "blacklist is empty")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFOLDER\tPART\tADDED\tREASON\tQUESTION")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
					e.ID, e.FolderName, e.PartNumber, e.AddedAt.Local().Format("2006-01-02 15:04"), e.Reason, e.QuestionText)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&folder, "folder", "", "only list entries from this folder")
	return cmd
}

func newBlacklistStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count blacklisted questions per folder",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			st := a.Blacklist.Stats(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total: %d\n", st.Total)
			for _, f := range st.Folders() {
				fmt.Fprintf(out, "%s: %d\n", f, st.ByFolder[f])
			}
			return nil
		}),
	}
}
