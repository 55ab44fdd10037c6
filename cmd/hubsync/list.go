package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubtools/hubsync/internal/artifacts"
	"github.com/hubtools/hubsync/internal/sync"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	var local bool
	var modified bool

	listCmd := &cobra.Command{
		Use:   "list [type...]",
		Short: "List artifact names, remote by default",
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

				var names []string
				switch {
				case local && modified:
					names, err = engine.ListLocalModifiedNames(sync.ChangeNew | sync.ChangeModified)
				case local:
					names, err = engine.ListLocalNames()
				case modified:
					names, err = engine.ListModifiedRemoteNames(cmd.Context())
				default:
					names, err = engine.ListRemoteNames(cmd.Context())
				}
				if err != nil {
					return fmt.Errorf("list %s: %w", def.TypeName, err)
				}

				for _, name := range names {
					fmt.Printf("%s/%s\n", def.TypeName, name)
				}
			}
			return nil
		},
	}

	listCmd.Flags().BoolVarP(&local, "local", "l", false, "list local artifacts instead of remote ones")
	listCmd.Flags().BoolVarP(&modified, "modified", "m", false, "list only new/modified artifacts")
	return listCmd
}
