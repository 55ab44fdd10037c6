package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPushCmd())
}

func newPushCmd() *cobra.Command {
	var pushAll bool

	pushCmd := &cobra.Command{
		Use:   "push [type...]",
		Short: "Push local artifacts to the hub",
		Long:  "Push local artifacts to the hub. By default only new and modified artifacts are pushed; --all pushes everything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			defs, err := selectSyncable(args)
			if err != nil {
				return err
			}

			var errCount atomic.Int64
			stop := app.reportEvents(cmd.Context(), &errCount)
			defer stop()

			pushed := 0
			for _, def := range defs {
				engine, err := app.engine(def)
				if err != nil {
					return err
				}

				result, err := pushType(cmd, engine, pushAll)
				if err != nil {
					return fmt.Errorf("push %s: %w", def.TypeName, err)
				}
				pushed += len(result.Items)

				if result.ItemErrors > 0 && !app.cfg.ContinueOnError {
					return fmt.Errorf("push %s: %d items failed", def.TypeName, result.ItemErrors)
				}
			}

			slog.Info("push complete", "pushed", pushed, "errors", errCount.Load())
			if n := errCount.Load(); n > 0 {
				return fmt.Errorf("%d items failed to push", n)
			}
			return nil
		},
	}

	pushCmd.Flags().BoolVarP(&pushAll, "all", "a", false, "push all artifacts, not just modified ones")
	return pushCmd
}
