package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubtools/hubsync/internal/artifacts"
	"github.com/hubtools/hubsync/internal/sync"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [type...]",
		Short: "Show local change summary and last sync times",
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

			for _, def := range defs {
				engine, err := app.engine(def)
				if err != nil {
					return err
				}

				modified, err := engine.ListLocalModifiedNames(sync.ChangeNew | sync.ChangeModified)
				if err != nil {
					return fmt.Errorf("status %s: %w", def.TypeName, err)
				}
				deleted, err := engine.Tracker().LocalDeletedNames()
				if err != nil {
					return fmt.Errorf("status %s: %w", def.TypeName, err)
				}

				lastPush, err := app.session.Hashes.PushTimestamp(def.TypeName)
				if err != nil {
					return err
				}
				lastPull, err := app.session.Hashes.PullTimestamp(def.TypeName)
				if err != nil {
					return err
				}

				fmt.Printf("%s: %d modified, %d deleted locally\n", def.TypeName, len(modified), len(deleted))
				if !lastPush.IsZero() {
					fmt.Printf("  last push: %s\n", lastPush.Local().Format("2006-01-02 15:04:05"))
				}
				if !lastPull.IsZero() {
					fmt.Printf("  last pull: %s\n", lastPull.Local().Format("2006-01-02 15:04:05"))
				}
			}
			return nil
		},
	}
}
