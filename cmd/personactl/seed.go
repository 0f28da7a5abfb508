package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/personas/internal/fixture"
	"github.com/mmynk/personas/internal/storage/sqlite"
)

func newSeedCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a records fixture into the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixture.Load(path)
			if err != nil {
				return err
			}

			store, err := sqlite.New(a.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			if err := f.Seed(cmd.Context(), store); err != nil {
				return fmt.Errorf("failed to seed %s: %w", a.cfg.DBPath, err)
			}

			slog.Info("Fixture seeded",
				"database", a.cfg.DBPath,
				"users", len(f.Users),
				"groups", len(f.Groups),
				"events", len(f.Events),
				"transactions", len(f.Transactions),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d groups, %d events, %d transactions\n",
				len(f.Users), len(f.Groups), len(f.Events), len(f.Transactions))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "fixture", "", "records fixture (default: bundled sample)")
	cmd.Flags().String("db-path", "", "SQLite database path")
	return cmd
}
