package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged files and working tree changes",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			branches := make([]string, 0, len(st.Branches))
			for _, b := range st.Branches {
				if b == st.CurrentBranch {
					b = "*" + b
				}
				branches = append(branches, b)
			}
			printStatusSection(out, "Branches", branches)
			printStatusSection(out, "Staged Files", st.Staged)
			printStatusSection(out, "Removed Files", st.Removed)

			unstaged := make([]string, 0, len(st.Unstaged))
			for _, u := range st.Unstaged {
				unstaged = append(unstaged, fmt.Sprintf("%s (%s)", u.Filename, u.Kind))
			}
			printStatusSection(out, "Modifications Not Staged For Commit", unstaged)
			printStatusSection(out, "Untracked Files", st.Untracked)
			return nil
		},
	}
}

func printStatusSection(out io.Writer, title string, lines []string) {
	fmt.Fprintf(out, "=== %s ===\n", title)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	fmt.Fprintln(out)
}
