package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity and commit signatures",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			report, err := r.Store.Verify()
			if err != nil {
				return err
			}

			ids, err := r.Store.ListCommits()
			if err != nil {
				return err
			}
			var result *multierror.Error
			signatures := 0
			for _, id := range ids {
				c, _, err := r.Store.GetCommit(id)
				if err != nil {
					return err
				}
				if c.Signature == "" {
					continue
				}
				fingerprint, err := verifyCommitSignature(c)
				if err != nil {
					result = multierror.Append(result, fmt.Errorf("commit %s: %w", id, err))
					continue
				}
				r.Logger.Debug("signature ok", "commit", id, "key", fingerprint)
				signatures++
			}
			if err := result.ErrorOrNil(); err != nil {
				return err
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"ok: verified %d blob(s), %d commit(s), %d signature(s)\n",
				report.Blobs,
				report.Commits,
				signatures,
			)
			return nil
		},
	}
}
