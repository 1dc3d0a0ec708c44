package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cbt-study/internal/app"
	"github.com/p-n-ai/cbt-study/internal/exam"
	"github.com/p-n-ai/cbt-study/internal/question"
	"github.com/p-n-ai/cbt-study/internal/results"
)

func newTestCmd() *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "test <folder> <part>...",
		Short: "Take a graded test, answering on stdin",
		Long: "Take a graded test. Answer each question with 1-4 (or ①-④); an empty line skips it\n" +
			"and \"q\" ends the test early with the remaining questions unanswered.",
		Args: cobra.MinimumNArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			parts, err := parseParts(args[1:])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			qs, err := exam.RequireQuestions(a.Loader.LoadExam(ctx, args[0], parts))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			started := time.Now()
			answers := make([]int, 0, len(qs))
			scanner := bufio.NewScanner(cmd.InOrStdin())

			for i, q := range qs {
				printQuestion(out, i+1, q, false)
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if strings.EqualFold(line, "q") {
					break
				}
				answers = append(answers, selectedOption(line))
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answers: %w", err)
			}

			res, err := results.Grade(results.Attempt{
				FolderName:    args[0],
				SelectedParts: parts,
				Questions:     qs,
				Answers:       answers,
				StartedAt:     started,
				CompletedAt:   time.Now(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nscore: %d%% (%d/%d correct)\n", res.Score, res.CorrectAnswers, res.TotalQuestions)
			if wrong := results.WrongQuestions(qs, res); len(wrong) > 0 {
				fmt.Fprintf(out, "\nwrong answers:\n\n")
				for i, q := range wrong {
					printQuestion(out, i+1, q, true)
					fmt.Fprintln(out)
				}
			}

			if noSave {
				return nil
			}
			if err := a.Results.Save(ctx, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved result %s\n", res.ID)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the result in history")
	return cmd
}

// selectedOption maps typed input to an option number; anything outside 1..4 counts
// as unanswered.
func selectedOption(input string) int {
	n := question.ParseAnswer(input)
	if n < 1 || n > 4 {
		return 0
	}
	return n
}
