package main

import (
	"github.com/spf13/cobra"
)

func newDumpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a storage set file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadFile(args[0])
			if err != nil {
				return err
			}
			defer set.Close()
			return printSet(cmd.OutOrStdout(), set, opts.json)
		},
	}
}
