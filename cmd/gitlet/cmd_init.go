package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty gitlet repository in the current directory",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(".")
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			level := new(slog.LevelVar)
			level.Set(slog.LevelWarn)
			if verboseRequested(cmd) {
				level.Set(slog.LevelDebug)
			}
			if _, err := repo.InitAt(abs, repo.WithLogger(newLogger(cmd.ErrOrStderr(), level))); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty gitlet repository in %s\n", filepath.Join(abs, repo.MetaDir)+string(filepath.Separator))
			return nil
		},
	}
}
