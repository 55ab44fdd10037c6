package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	var deleteAll bool

	deleteCmd := &cobra.Command{
		Use:   "delete <type> [name]",
		Short: "Delete artifacts from the hub",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if !deleteAll && len(args) < 2 {
				return fmt.Errorf("specify an artifact name or --all")
			}
			if deleteAll && len(args) == 2 {
				return fmt.Errorf("--all cannot be combined with an artifact name")
			}

			defs, err := selectSyncable(args[:1])
			if err != nil {
				return err
			}
			def := defs[0]

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			var errCount atomic.Int64
			stop := app.reportEvents(cmd.Context(), &errCount)
			defer stop()

			engine, err := app.engine(def)
			if err != nil {
				return err
			}

			if !deleteAll {
				return engine.DeleteRemoteItem(cmd.Context(), args[1])
			}

			result, err := engine.DeleteAllItems(cmd.Context())
			if err != nil {
				return fmt.Errorf("delete %s: %w", def.TypeName, err)
			}

			slog.Info("delete complete", "type", def.TypeName, "deleted", len(result.Deleted), "errors", result.ItemErrors)
			if result.ItemErrors > 0 {
				return fmt.Errorf("%d items failed to delete", result.ItemErrors)
			}
			return nil
		},
	}

	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every artifact of the type")
	return deleteCmd
}
