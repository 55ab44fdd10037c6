package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubtools/hubsync/internal/client/config"
	"github.com/hubtools/hubsync/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "hubsync",
	Short:   "Synchronize content artifacts between a local directory and the hub",
	Version: version.Detailed(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetBool("verbose"))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.SortFlags = false
	pf.StringP("dir", "d", ".", "working directory")
	pf.StringP("server", "s", "", "hub server URL")
	pf.StringP("api-key", "k", "", "hub API key")
	pf.String("config", "", "config file (default <dir>/"+config.DefaultConfigPath+")")
	pf.IntP("concurrent-limit", "C", 0, "max concurrent push/pull operations")
	pf.Int("page-limit", 0, "page size for hub listing calls")
	pf.Bool("continue-on-error", true, "keep processing remaining artifact types after item errors")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlags(pf)
	viper.SetEnvPrefix("HUBSYNC")
	viper.AutomaticEnv()
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
