package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/hubtools/hubsync/internal/artifacts"
)

func init() {
	rootCmd.AddCommand(newPullCmd())
}

func newPullCmd() *cobra.Command {
	var pullAll bool
	var refresh bool

	pullCmd := &cobra.Command{
		Use:   "pull [type...]",
		Short: "Pull artifacts from the hub into the working directory",
		Long:  "Pull artifacts from the hub. By default only artifacts modified since the last successful pull are retrieved; --all pulls everything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			defs, err := artifacts.Select(args)
			if err != nil {
				return err
			}

			var errCount atomic.Int64
			stop := app.reportEvents(cmd.Context(), &errCount)
			defer stop()

			pulled := 0
			for _, def := range defs {
				engine, err := app.engine(def)
				if err != nil {
					return err
				}

				if refresh && def.PullOnly {
					// read-only types keep hashes as a pure cache; wiping
					// them forces a full re-pull
					if err := app.session.Hashes.RemoveAll(def.TypeName); err != nil {
						return fmt.Errorf("refresh %s hashes: %w", def.TypeName, err)
					}
				}

				result, err := pullType(cmd, engine, pullAll)
				if err != nil {
					return fmt.Errorf("pull %s: %w", def.TypeName, err)
				}
				pulled += len(result.Items)

				if result.ItemErrors > 0 && !app.cfg.ContinueOnError {
					return fmt.Errorf("pull %s: %d items failed", def.TypeName, result.ItemErrors)
				}
			}

			slog.Info("pull complete", "pulled", pulled, "errors", errCount.Load())
			if n := errCount.Load(); n > 0 {
				return fmt.Errorf("%d items failed to pull", n)
			}
			return nil
		},
	}

	pullCmd.Flags().BoolVarP(&pullAll, "all", "a", false, "pull all artifacts, not just modified ones")
	pullCmd.Flags().BoolVar(&refresh, "refresh", false, "discard cached hashes of read-only types before pulling")
	return pullCmd
}
