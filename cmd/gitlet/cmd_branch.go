package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch <name>",
		Short: "Create a branch at HEAD",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			if err := r.CreateBranch(args[0]); err != nil {
				return err
			}
			return r.Save()
		},
	}
}

func newRmBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-branch <name>",
		Short: "Delete a branch pointer",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			if err := r.DeleteBranch(args[0]); err != nil {
				return err
			}
			if err := r.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted branch '%s'\n", args[0])
			return nil
		},
	}
}
