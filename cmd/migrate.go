package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ailandscape/landscape-cli/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and seed reference data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}
		if err := store.Seed(ctx, s); err != nil {
			return eris.Wrap(err, "seed countries")
		}

		zap.L().Info("migrations applied")
		fmt.Fprintln(cmd.OutOrStdout(), "Database migrated and reference data seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
