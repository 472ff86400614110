package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stateiter",
		Short: "Iterate a counter store's states as a pull sequence",
		Long: `stateiter wraps an in-memory counter store in an iterable, dispatches
the requested actions and prints every state snapshot the iterable yields,
starting with the state at the first pull.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stateiter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stateiter version %s\n", version)
		},
	}
}
