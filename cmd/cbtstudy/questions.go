package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cbt-study/internal/app"
	"github.com/p-n-ai/cbt-study/internal/exam"
	"github.com/p-n-ai/cbt-study/internal/question"
)

func newFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List available exam sittings",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			folders := a.Loader.Folders(cmd.Context())
			if len(folders) == 0 {
				return errors.New("no exam folders found")
			}
			for _, f := range folders {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		}),
	}
}

func newQuestionsCmd() *cobra.Command {
	var (
		all    bool
		search string
	)
	cmd := &cobra.Command{
		Use:   "questions <folder> <part>",
		Short: "Browse the questions of one part",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			part, err := parsePart(args[1])
			if err != nil {
				return err
			}

			qs := question.Search(a.Loader.LoadPart(cmd.Context(), args[0], part, all), search)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s part %d: %d questions\n\n", args[0], part, len(qs))
			for i, q := range qs {
				printQuestion(out, i+1, q, true)
				fmt.Fprintln(out)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "include blacklisted questions")
	cmd.Flags().StringVar(&search, "search", "", "only show questions containing this text")
	return cmd
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <folder> <part>...",
		Short: "Read questions with answers across several parts",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			parts, err := parseParts(args[1:])
			if err != nil {
				return err
			}

			data := a.Loader.LoadExam(cmd.Context(), args[0], parts)
			if _, err := exam.RequireQuestions(data); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range data.Parts {
				fmt.Fprintf(out, "== part %d (%d questions) ==\n\n", p.PartNumber, len(p.Questions))
				for i, q := range p.Questions {
					printQuestion(out, i+1, q, true)
					fmt.Fprintln(out)
				}
			}
			return nil
		}),
	}
}
