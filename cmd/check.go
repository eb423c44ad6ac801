package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/answermatch"
)

var checkCmd = &cobra.Command{
	Use:   "check <candidate> <reference>",
	Short: "Grade an answer against a reference and explain the verdict",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, _ := cmd.Flags().GetString("preset")
		if preset == "" {
			preset = cfg.Preset
		}
		m, err := answermatch.ForPreset(preset)
		if err != nil {
			return err
		}

		v := m.Match(args[0], args[1])
		cliLogger(cmd).Debug("checked",
			"candidate", args[0], "reference", args[1], "preset", preset, "tier", string(v.Tier))

		verdict := "no match"
		if v.Match {
			verdict = "match"
		}
		distance := "-"
		if v.Distance >= 0 {
			distance = fmt.Sprint(v.Distance)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-11s %s\n", "verdict:", verdict)
		fmt.Fprintf(out, "%-11s %s\n", "tier:", v.Tier)
		fmt.Fprintf(out, "%-11s %s\n", "distance:", distance)
		fmt.Fprintf(out, "%-11s %.2f\n", "similarity:", answermatch.Similarity(args[0], args[1]))
		fmt.Fprintf(out, "%-11s %s\n", "preset:", preset)

		if !v.Match {
			return &ExitError{Code: 1}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("preset", "", "Matcher preset: generic or law (default from RECALL_PRESET)")
}
