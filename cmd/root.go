package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/config"
)

// cfg is loaded once before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Terminal quiz trainer with forgiving answer matching",
	Long: "Recall: practice question banks in the terminal. Typed answers are graded " +
		"with fuzzy matching, so small typos and missing filler words still count.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// ExitError ends the process with Code and no message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RECALL_DB env var)")
	rootCmd.PersistentFlags().String("banks", "", "Directory of extra bank JSON files (overrides RECALL_BANKS_DIR env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies flags, which
// take priority.
func loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	c, err := config.ConfigFromEnv()
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DBPath = p
	}
	if d, _ := cmd.Flags().GetString("banks"); d != "" {
		c.BanksDir = d
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}
