package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the geocoding cache",
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired geocoding cache entries",
	Long:  "Deletes cache rows past their expiry. Meant to run on a daily schedule.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		removed, err := s.SweepExpiredGeocodeCache(ctx)
		if err != nil {
			return eris.Wrap(err, "sweep geocode cache")
		}

		zap.L().Info("cache sweep complete", zap.Int64("removed", removed))
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired geocoding cache entries\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheSweepCmd)
	rootCmd.AddCommand(cacheCmd)
}
