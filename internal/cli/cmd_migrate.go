package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type migrateResult struct {
	Driver string `json:"driver"`
	Reset  bool   `json:"reset"`
	Seeded int    `json:"seeded"`
}

func newMigrateCommand(deps commandDeps) *cobra.Command {
	var reset, seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the entities table and insert sample rows",
		Long: "Applies pending schema migrations. With --reset the table is dropped first.\n" +
			"Sample rows are inserted only when the table is empty.",
		Example: "  entities migrate\n" +
			"  entities migrate --reset\n" +
			"  entities migrate --seed=false --db ./data/entities.db",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("migrate does not accept positional arguments")
			}

			cfg, _, err := loadConfig(deps.globals)
			if err != nil {
				return err
			}
			logger, closer, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cmd.Context()
			db, err := openStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer db.Close()

			if reset {
				if err := db.Reset(ctx); err != nil {
					return mapCommandError(fmt.Errorf("migrate: %w", err))
				}
				logger.Info("dropped existing schema")
			}
			if err := db.Migrate(ctx); err != nil {
				return mapCommandError(fmt.Errorf("migrate: %w", err))
			}

			result := migrateResult{Driver: string(db.Dialect()), Reset: reset}
			if seed {
				if result.Seeded, err = db.Seed(ctx); err != nil {
					return mapCommandError(fmt.Errorf("migrate: seed: %w", err))
				}
			}

			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, result))
			}
			_, err = fmt.Fprintf(deps.out, "migrated driver=%s reset=%t seeded=%d\n", result.Driver, result.Reset, result.Seeded)
			return mapCommandError(err)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop the entities table before migrating")
	cmd.Flags().BoolVar(&seed, "seed", true, "Insert sample rows when the table is empty")
	return cmd
}
