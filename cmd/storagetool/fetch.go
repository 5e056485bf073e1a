package main

import (
	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/config"
	"github.com/kasanryukin/nesiadmud/engine/gwutils"
	"github.com/kasanryukin/nesiadmud/engine/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newFetchCmd(opts *options) *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "fetch <kind> <id>",
		Short: "Print an entity saved in the configured storage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := auxiliary.ParseKind(args[0])
			if err != nil {
				return err
			}
			if len(kind.Kinds()) != 1 {
				return errors.Errorf("fetch needs exactly one entity kind, got %s", kind)
			}

			var storageConfig *config.StorageConfig
			config.SetConfigFile(configFile)
			if err := gwutils.CatchPanic(func() {
				storageConfig = config.GetStorage()
			}); err != nil {
				return errors.Wrap(err, "read config")
			}
			es, err := storage.OpenStorage(storageConfig)
			if err != nil {
				return errors.Wrap(err, "open storage")
			}
			defer es.Close()

			set, err := es.Read(kind.String(), common.EntityID(args[1]))
			if err != nil {
				return err
			}
			if set == nil {
				return errors.Errorf("%s %s is not saved", kind, args[1])
			}
			defer set.Close()
			return printSet(cmd.OutOrStdout(), set, opts.json)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "nesiadmud.ini", "config file")
	return cmd
}
