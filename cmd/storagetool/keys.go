package main

import (
	"encoding/json"
	"fmt"

	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/spf13/cobra"
)

type keyInfo struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
	Len  int    `json:"len,omitempty"` // entries of sets and lists
}

func newKeysCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <file>",
		Short: "List the top level keys of a storage set file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadFile(args[0])
			if err != nil {
				return err
			}
			defer set.Close()

			infos := topLevelKeys(set)
			out := cmd.OutOrStdout()
			if opts.json {
				b, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}
			for _, info := range infos {
				if info.Kind == storageset.KindSet.String() || info.Kind == storageset.KindList.String() {
					fmt.Fprintf(out, "%-24s %s(%d)\n", info.Key, info.Kind, info.Len)
				} else {
					fmt.Fprintf(out, "%-24s %s\n", info.Key, info.Kind)
				}
			}
			return nil
		},
	}
}

func topLevelKeys(set *storageset.Set) []keyInfo {
	infos := make([]keyInfo, 0, set.Len())
	set.ForEach(func(key string, val storageset.Value) {
		info := keyInfo{Key: key, Kind: val.Kind().String()}
		switch v := val.(type) {
		case *storageset.Set:
			info.Len = v.Len()
		case *storageset.List:
			info.Len = v.Len()
		}
		infos = append(infos, info)
	})
	return infos
}
