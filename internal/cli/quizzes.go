package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"quiz-hosting-service/internal/client"
	"quiz-hosting-service/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewQuizzesCmd groups the commands that talk to a running server.
func NewQuizzesCmd() *cobra.Command {
	server := os.Getenv("QUIZ_SERVER")
	if server == "" {
		server = "http://localhost:8000"
	}

	cmd := &cobra.Command{
		Use:   "quizzes",
		Short: "List, show, create and take quizzes on a running server",
	}
	cmd.PersistentFlags().StringVar(&server, "server", server, "base URL of the quiz API")

	newClient := func() *client.Client { return client.New(server) }
	cmd.AddCommand(
		newListQuizzesCmd(newClient),
		newGetQuizCmd(newClient),
		newCreateQuizCmd(newClient),
		newSubmitCmd(newClient),
	)
	return cmd
}

func newListQuizzesCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quizzes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quizzes, err := newClient().ListQuizzes(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tQUESTIONS")
			for _, quiz := range quizzes {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", quiz.ID, quiz.Title, len(quiz.Questions))
			}
			return tw.Flush()
		},
	}
}

func newGetQuizCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print a quiz as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quiz, err := newClient().GetQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), quiz)
		},
	}
}

func newCreateQuizCmd(newClient func() *client.Client) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f quiz.json",
		Short: "Create a quiz from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			payload, err := domain.DecodeCreateQuizPayload(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			quiz, err := newClient().CreateQuiz(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created quiz %s (%d questions)\n", quiz.ID, len(quiz.Questions))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a quiz JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSubmitCmd(newClient func() *client.Client) *cobra.Command {
	var review bool
	cmd := &cobra.Command{
		Use:   "submit <id> [answer...]",
		Short: "Submit answers in question order and print the score",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			submission := domain.Submission{Answers: args[1:]}
			out := cmd.OutOrStdout()
			if !review {
				result, err := newClient().Submit(cmd.Context(), args[0], submission)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "score %d/%d (%.2f%%)\n", result.Score, result.Total, result.Percentage)
				return nil
			}

			result, err := newClient().SubmitReview(cmd.Context(), args[0], submission)
			if err != nil {
				return err
			}
			for _, answer := range result.Answers {
				mark := color.RedString("✗")
				if answer.Correct {
					mark = color.GreenString("✓")
				}
				fmt.Fprintf(out, "%s %d. %q (expected %q)\n", mark, answer.Index+1, answer.Given, answer.Expected)
			}
			fmt.Fprintf(out, "score %d/%d (%.2f%%)\n", result.Score, result.Total, result.Percentage)
			return nil
		},
	}
	cmd.Flags().BoolVar(&review, "review", false, "show which answers were correct")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
