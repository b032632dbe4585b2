package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var sign bool
	var signingKey string

	cmd := &cobra.Command{
		Use:   "commit <message>",
		Short: "Record the staged changes as a new commit",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := args[0]

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			signer, err := commitSigner(r, sign, signingKey)
			if err != nil {
				return err
			}

			h, err := r.CommitWithSigner(message, signer)
			if err != nil {
				return err
			}
			if err := r.Save(); err != nil {
				return err
			}

			first, _, _ := strings.Cut(message, "\n")
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", r.State.CurrentBranch, h.Short(), first)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sign, "sign", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&signingKey, "key", "", "SSH private key path (implies --sign; default: user.signing_key or ~/.ssh)")

	return cmd
}

// commitSigner returns nil unless signing was requested. An explicit key
// path wins over the configured user.signing_key.
func commitSigner(r *repo.Repo, sign bool, keyPath string) (repo.CommitSigner, error) {
	if !sign && strings.TrimSpace(keyPath) == "" {
		return nil, nil
	}
	if strings.TrimSpace(keyPath) == "" {
		keyPath = r.Config.User.SigningKey
	}
	signer, resolved, err := newSSHCommitSigner(keyPath)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("signing commit", "key", resolved)
	return signer, nil
}
