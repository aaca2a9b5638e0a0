package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users, sleep and feeding tables if missing",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, st.Close()) }()

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Info("schema applied", zap.String("backend", cfg.StorageBackend))
			return nil
		},
	}
}
