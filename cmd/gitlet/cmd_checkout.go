package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout -- <file> | checkout <commit> -- <file> | checkout <branch>",
		Short: "Restore a file or switch branches",
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := checkoutRequest(cmd.ArgsLenAtDash(), args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := checkoutRequest(cmd.ArgsLenAtDash(), args)
			if err != nil {
				return err
			}

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			if err := r.Checkout(req); err != nil {
				return err
			}
			if err := r.Save(); err != nil {
				return err
			}

			if b, ok := req.(repo.CheckoutBranch); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to branch '%s'\n", b.Branch)
			}
			return nil
		},
	}
}

// checkoutRequest maps the operand shape to a request. dash is the number
// of operands before "--", or -1 when there was none.
func checkoutRequest(dash int, args []string) (repo.CheckoutRequest, error) {
	switch {
	case dash == -1 && len(args) == 1:
		return repo.CheckoutBranch{Branch: args[0]}, nil
	case dash == 0 && len(args) == 1:
		return repo.CheckoutFile{Filename: args[0]}, nil
	case dash == 1 && len(args) == 2:
		return repo.CheckoutFileAtCommit{CommitID: args[0], Filename: args[1]}, nil
	}
	return nil, repo.ErrWrongArgumentCount
}
