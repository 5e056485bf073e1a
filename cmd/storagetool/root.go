package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Global flag values.
type options struct {
	json     bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "storagetool",
		Short: "Inspect and verify saved storage sets",
		Long: `storagetool reads storage set files written by the world, or entities saved
in the configured storage backend, and prints or verifies them.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			gwlog.SetSource("storagetool")
			gwlog.SetLevel(gwlog.ParseLevel(opts.logLevel))
		},
	}
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newDumpCmd(opts))
	rootCmd.AddCommand(newKeysCmd(opts))
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newFetchCmd(opts))
	return rootCmd
}

// loadFile reads the storage set file, which must exist
func loadFile(path string) (*storageset.Set, error) {
	set, err := storageset.Load(path)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, errors.Errorf("%s: file not found", path)
	}
	return set, nil
}

func printSet(w io.Writer, set *storageset.Set, asJSON bool) error {
	if !asJSON {
		_, err := w.Write(storageset.Marshal(set))
		return err
	}

	out, err := json.MarshalIndent(set.ToMap(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
