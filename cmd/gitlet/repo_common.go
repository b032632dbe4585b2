package main

import (
	"io"
	"log/slog"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return repo.ErrWrongArgumentCount
		}
		return nil
	}
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || (max >= 0 && len(args) > max) {
			return repo.ErrWrongArgumentCount
		}
		return nil
	}
}

func newLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func verboseRequested(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("verbose")
	return err == nil && v
}

// openRepo opens the repository in the current directory. Diagnostics go
// to stderr at the configured log.level, or debug with --verbose.
func openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if verboseRequested(cmd) {
		level.Set(slog.LevelDebug)
	}

	r, err := repo.OpenAt(".", repo.WithLogger(newLogger(cmd.ErrOrStderr(), level)))
	if err != nil {
		return nil, err
	}
	if !verboseRequested(cmd) {
		level.Set(r.Config.SlogLevel())
	}
	return r, nil
}
