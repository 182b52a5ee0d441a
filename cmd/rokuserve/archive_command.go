package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rokuserve/internal/archive"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Append new library titles to the download ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			appended, err := archive.Reconcile(cmd.Context(), cfg.Paths.VideosDir, cfg.Paths.ArchivePath, logger)
			if err != nil {
				return fmt.Errorf("reconcile ledger: %w", err)
			}

			out := cmd.OutOrStdout()
			if appended == 0 {
				fmt.Fprintf(out, "Ledger already up to date (%s)\n", cfg.Paths.ArchivePath)
				return nil
			}
			fmt.Fprintf(out, "Appended %d new titles to %s\n", appended, cfg.Paths.ArchivePath)
			return nil
		},
	}
}
