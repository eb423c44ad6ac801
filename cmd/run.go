package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/app"
	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play [bank-id]",
	Short: "Start the quiz TUI, optionally straight into a bank (or \"random\")",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := ""
		if len(args) == 1 {
			start = args[0]
		}
		return runApp(cmd, start)
	},
}

// runApp opens the store, loads the banks, and launches the TUI.
func runApp(cmd *cobra.Command, startBank string) error {
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	lib, err := loadLibrary(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger.Info("starting", "banks", lib.Len(), "start", startBank)
	return app.Run(app.Options{
		Library:   lib,
		Events:    st.EventRepo(),
		Progress:  store.NewProgressRepo(st.KV(), cfg.HistoryLimit),
		Config:    cfg,
		Logger:    logger,
		Rng:       newRng(),
		StartBank: startBank,
	})
}

func openStore() (*store.Store, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadLibrary returns the built-in banks merged with the configured
// directory. A broken directory is reported on warn and skipped.
func loadLibrary(warn io.Writer) (*bank.Library, error) {
	lib, err := bank.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load built-in banks: %w", err)
	}
	if cfg.BanksDir == "" {
		return lib, nil
	}
	extra, err := bank.LoadDir(cfg.BanksDir)
	if err != nil {
		fmt.Fprintln(warn, "Banks in", cfg.BanksDir, "skipped:", err)
		return lib, nil
	}
	return lib.Merge(extra), nil
}

// newRng seeds from RECALL_SEED, or the clock when it is zero.
func newRng() *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func newLogger(w io.Writer) *slog.Logger {
	lvl, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// cliLogger logs to stderr for one-shot commands.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	return newLogger(cmd.ErrOrStderr())
}

// tuiLogger logs to <data dir>/recall.log so output does not tear the
// alt screen.
func tuiLogger() (*slog.Logger, func(), error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}
	path := filepath.Join(dir, "recall.log")
	if err := store.EnsureDir(path); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f), func() { f.Close() }, nil
}
