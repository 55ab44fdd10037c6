package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubtools/hubsync/internal/client/config"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file into the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := viper.GetString("config")
			if path == "" {
				path = filepath.Join(cfg.Dir, config.DefaultConfigPath)
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Println("wrote", path)
			return nil
		},
	}
}
