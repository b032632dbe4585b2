package main

import (
	"fmt"
	"io"
	"time"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the first-parent history of HEAD",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			entries, err := r.Log()
			if err != nil {
				return err
			}
			printLogEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			entries, err := r.GlobalLog()
			if err != nil {
				return err
			}
			printLogEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of all commits with the given message",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			ids, err := r.Find(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func printLogEntries(out io.Writer, entries []repo.LogEntry) {
	for _, e := range entries {
		c := e.Commit
		fmt.Fprintln(out, "===")
		fmt.Fprintf(out, "commit %s\n", e.ID)
		if c.IsMerge() {
			fmt.Fprintf(out, "Merge: %s %s\n", c.ParentID.Short(), c.MergedParentID.Short())
		}
		fmt.Fprintf(out, "Date: %s\n", time.Unix(c.Timestamp, 0).Format(logDateLayout))
		fmt.Fprintln(out, c.Message)
		fmt.Fprintln(out)
	}
}
