package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset [bank-id]",
	Short: "Delete saved progress and answer history for a bank, or everything with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		switch {
		case all && len(args) == 1:
			return errors.New("use a bank ID or --all, not both")
		case !all && len(args) == 0:
			return errors.New("name a bank ID, or pass --all")
		}

		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		progress := store.NewProgressRepo(st.KV(), cfg.HistoryLimit)
		events := st.EventRepo()
		logger := cliLogger(cmd)

		if all {
			if err := progress.ResetAll(ctx); err != nil {
				return err
			}
			if err := events.DeleteAll(ctx); err != nil {
				return err
			}
			logger.Info("reset all progress")
			fmt.Fprintln(cmd.OutOrStdout(), "All progress deleted.")
			return nil
		}

		id := args[0]
		if err := progress.Reset(ctx, id); err != nil {
			return err
		}
		if err := events.DeleteBank(ctx, id); err != nil {
			return err
		}
		logger.Info("reset bank progress", "bank", id)
		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s deleted.\n", id)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Delete progress for every bank")
}
