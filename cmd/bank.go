package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/bank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect, validate and audit question banks",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every loaded bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-24s  %-36s  %9s  %-8s  %s\n",
			"ID", "Title", "Questions", "Preset", "Version")
		fmt.Fprintln(out, strings.Repeat("─", 92))

		total := 0
		for _, b := range lib.All() {
			title := b.Title
			if len(title) > 36 {
				title = title[:33] + "..."
			}
			preset := b.Preset
			if preset == "" {
				preset = "(" + cfg.Preset + ")"
			}
			fmt.Fprintf(out, "%-24s  %-36s  %9d  %-8s  %s\n",
				b.ID, title, len(b.Questions), preset, b.Version)
			total += len(b.Questions)
		}

		fmt.Fprintf(out, "\n%d banks, %d questions\n", lib.Len(), total)
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file...>",
	Short: "Check bank files against the schema and content rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			b, err := bank.LoadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "FAIL  %s\n      %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "ok    %s  (%s, %d questions)\n", path, b.ID, len(b.Questions))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d bank files invalid", failed, len(args))
		}
		return nil
	},
}

var bankAuditCmd = &cobra.Command{
	Use:   "audit [bank-id]",
	Short: "Look for answer-leaking patterns in multiple-choice questions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		banks := lib.All()
		if len(args) == 1 {
			b, err := lib.Get(args[0])
			if err != nil {
				return err
			}
			banks = []*bank.Bank{b}
		}

		out := cmd.OutOrStdout()
		for i, b := range banks {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printAudit(out, b.Title, bank.Audit(b))
		}
		return nil
	},
}

func printAudit(out io.Writer, title string, r bank.Report) {
	fmt.Fprintf(out, "%s (%s)\n", title, r.BankID)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	if r.MultipleChoice == 0 {
		fmt.Fprintln(out, "  no multiple-choice questions")
	} else {
		fmt.Fprintf(out, "  correct option is longest:  %d/%d (%.0f%%)\n",
			r.CorrectLongest, r.MultipleChoice, r.LongestRatio()*100)

		positions := make([]string, len(r.Positions))
		for i, n := range r.Positions {
			positions[i] = fmt.Sprintf("%c:%d", 'A'+i, n)
		}
		fmt.Fprintf(out, "  answer positions:           %s\n", strings.Join(positions, "  "))
	}

	if len(r.LengthBias) > 0 {
		fmt.Fprintf(out, "  length bias (%d):\n", len(r.LengthBias))
		for _, f := range r.LengthBias {
			fmt.Fprintf(out, "    %-20s correct %d chars vs %.0f avg (+%.0f%%)\n",
				f.QuestionID, f.CorrectLen, f.AvgIncorrectLen, f.DiffPercent)
		}
	}
	if len(r.NearDuplicates) > 0 {
		fmt.Fprintf(out, "  near-duplicate options (%d):\n", len(r.NearDuplicates))
		for _, d := range r.NearDuplicates {
			fmt.Fprintf(out, "    %-20s options %d and %d are %.0f%% similar\n",
				d.QuestionID, d.First+1, d.Second+1, d.Similarity*100)
		}
	}
}

var bankShuffleCmd = &cobra.Command{
	Use:   "shuffle <file>",
	Short: "Write a copy of a bank with the options of every question shuffled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := bank.LoadFile(args[0])
		if err != nil {
			return err
		}

		seed, _ := cmd.Flags().GetUint64("seed")
		if seed != 0 {
			cfg.Seed = seed
		}
		shuffled := bank.Shuffled(b, newRng())

		data, err := json.MarshalIndent(shuffled, "", "  ")
		if err != nil {
			return fmt.Errorf("encode bank: %w", err)
		}
		data = append(data, '\n')

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if outPath == args[0] {
			return errors.New("refusing to overwrite the input file")
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d questions)\n", outPath, len(shuffled.Questions))
		return nil
	},
}

func init() {
	bankShuffleCmd.Flags().Uint64("seed", 0, "Shuffle seed (default RECALL_SEED, else time-based)")
	bankShuffleCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankAuditCmd)
	bankCmd.AddCommand(bankShuffleCmd)
}
