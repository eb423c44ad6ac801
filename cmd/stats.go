package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/stats"
	"github.com/abhisek/recall/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-bank progress and the weakest questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		lib, err := loadLibrary(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		progress, err := store.NewProgressRepo(st.KV(), cfg.HistoryLimit).All(ctx)
		if err != nil {
			return err
		}
		rep := stats.Overview(lib, progress, cfg.RandomSize)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-32s  %9s  %9s  %8s  %s\n", "Bank", "Last", "Best", "Attempts", "Last played")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, row := range rep.Rows {
			last, best, when := "-", "-", "never"
			if row.Started() {
				last = fmt.Sprintf("%d/%d", row.Correct, row.Completed)
				best = fmt.Sprintf("%d%%", row.BestPercent())
				when = row.LastAttempt.Local().Format("2006-01-02 15:04")
			}
			title := row.Title
			if len(title) > 32 {
				title = title[:29] + "..."
			}
			fmt.Fprintf(out, "%-32s  %9s  %9s  %8d  %s\n", title, last, best, row.Attempts, when)
		}
		fmt.Fprintf(out, "\n%d attempts · %d of %d questions answered (%.0f%%) · %.0f%% accuracy\n",
			rep.Attempts, rep.Completed, rep.TotalQuestions, rep.CompletionRate()*100, rep.Accuracy()*100)

		n, _ := cmd.Flags().GetInt("weak")
		if n <= 0 {
			return nil
		}
		qs, err := st.EventRepo().QuestionStats(ctx, "")
		if err != nil {
			return err
		}
		weak := stats.Weakest(qs, n)
		if len(weak) == 0 {
			return nil
		}
		fmt.Fprintf(out, "\nNeeds practice\n%s\n", strings.Repeat("─", 84))
		for _, w := range weak {
			prompt := w.QuestionID
			if b, err := lib.Get(w.BankID); err == nil {
				if q := b.Question(w.QuestionID); q != nil {
					prompt = q.Prompt
				}
			}
			if r := []rune(prompt); len(r) > 60 {
				prompt = string(r[:57]) + "..."
			}
			fmt.Fprintf(out, "%4.0f%%  %-60s  %d/%d\n", w.Mastery*100, prompt, w.Correct, w.Answered)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("weak", 5, "Number of weakest questions to list (0 hides them)")
}
