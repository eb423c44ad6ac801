package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [bank-id]",
	Short: "List past attempts, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		if len(args) == 1 {
			opts.BankID = args[0]
		}
		attempts, err := st.EventRepo().QueryAttempts(cmd.Context(), opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-28s  %7s  %5s  %8s  %s\n",
			"Date", "Bank", "Score", "%", "Duration", "Streak")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, a := range attempts {
			title := a.Title
			if title == "" {
				title = a.BankID
			}
			if len(title) > 28 {
				title = title[:25] + "..."
			}
			fmt.Fprintf(out, "%-16s  %-28s  %7s  %4d%%  %8s  %d\n",
				a.Timestamp.Local().Format("2006-01-02 15:04"),
				title,
				fmt.Sprintf("%d/%d", a.Score, a.Total),
				a.Percent(),
				fmt.Sprintf("%d:%02d", a.DurationSecs/60, a.DurationSecs%60),
				a.BestStreak)
		}
		fmt.Fprintf(out, "\n%d attempts\n", len(attempts))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum attempts to list (0 = all)")
}
