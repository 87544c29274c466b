package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"db-copy/internal/dialect"
	"db-copy/internal/engine"
	"db-copy/internal/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	seedTable string
	seedCount int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a source table with generated rows for a rehearsal copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedTable == "" {
			return fmt.Errorf("--table is required")
		}
		ctx := context.Background()

		count := viper.GetInt("settings.seed_count")
		if seedCount > 0 {
			count = seedCount
		}

		d := dialect.GetSourceDialect(SourceDriver)
		intro := schema.NewIntrospector(SourceDB, d)
		cols, err := intro.Describe(ctx, seedTable)
		if err != nil {
			return err
		}

		log.Printf("Seeding %s with %d rows...", seedTable, count)
		start := time.Now()
		seeder := engine.NewSeeder(SourceDB, d)
		inserted, err := seeder.Seed(ctx, seedTable, cols, count, viper.GetInt("settings.batch_size"))
		if err != nil {
			return fmt.Errorf("seeded %d rows before failing: %w", inserted, err)
		}
		log.Printf("Seed done! %d rows in %s", inserted, time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedTable, "table", "t", "", "Table to seed (required)")
	seedCmd.Flags().IntVar(&seedCount, "count", 0, "Number of rows to generate (overrides config)")
}
