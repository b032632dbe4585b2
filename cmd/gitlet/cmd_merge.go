package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	var sign bool
	var signingKey string

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branchName := args[0]

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			current := r.State.CurrentBranch

			signer, err := commitSigner(r, sign, signingKey)
			if err != nil {
				return err
			}

			report, err := r.Merge(branchName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch report.Outcome {
			case repo.MergeAncestor:
				fmt.Fprintln(out, "Given branch is an ancestor of the current branch.")
				return nil
			case repo.MergeFastForward:
				if err := r.Save(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Current branch fast-forwarded.")
				return nil
			}

			for _, f := range report.Files {
				printFileReport(out, f)
			}

			message := fmt.Sprintf("Merged %s into %s.", branchName, current)
			h, err := r.CommitMerge(message, report.Given, signer)
			if err != nil {
				return err
			}
			if err := r.Save(); err != nil {
				return err
			}

			if report.HasConflicts {
				fmt.Fprintln(out, "Encountered a merge conflict.")
			}
			fmt.Fprintf(out, "[%s %s] %s\n", current, h.Short(), message)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sign, "sign", false, "sign the merge commit with an SSH key")
	cmd.Flags().StringVar(&signingKey, "key", "", "SSH private key path (implies --sign)")

	return cmd
}

func printFileReport(out io.Writer, f repo.FileMergeReport) {
	switch f.Action {
	case repo.MergeActionConflict:
		fmt.Fprintf(out, "  %s: CONFLICT\n", f.Filename)
	case repo.MergeActionRemove:
		fmt.Fprintf(out, "  %s: deleted\n", f.Filename)
	default:
		fmt.Fprintf(out, "  %s: updated\n", f.Filename)
	}
}
