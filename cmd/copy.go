package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"db-copy/internal/dialect"
	"db-copy/internal/engine"
	"db-copy/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	copyTable string
	assumeYes bool
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy one table from the source to the target",
	Long:  "Copies the full contents of one table, recreating it on the target.\nDESTRUCTIVE: the target table is dropped and recreated.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if copyTable == "" {
			return fmt.Errorf("--table is required")
		}

		if !assumeYes && !confirmDrop(copyTable) {
			fmt.Println("Aborted.")
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := TransferConfig()
		log.Printf("Copying %s (%s -> %s), batch=%d page=%d retries=%d",
			copyTable, SourceDriver, TargetDriver, cfg.BatchSize, cfg.PageSize, cfg.MaxRetries)

		uiprogress.Start()
		bar := uiprogress.AddBar(100).AppendCompleted().PrependElapsed()
		var lastSnap engine.Snapshot
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("Copying %-12s %6.0f rows/s", copyTable, lastSnap.RowsPerSec)
		})

		runner := &engine.Runner{
			Source:        SourceDB,
			Target:        TargetDB,
			SourceDialect: dialect.GetSourceDialect(SourceDriver),
			TargetDialect: dialect.GetTargetDialect(TargetDriver),
			Config:        cfg,
			OnProgress: func(s engine.Snapshot) {
				lastSnap = s
				bar.Set(int(s.Pct))
			},
		}

		start := time.Now()
		report, err := runner.Run(ctx, copyTable)
		uiprogress.Stop()

		printReport(report)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		if report.Status == schema.StatusPartial {
			log.Printf("Partial copy: %d of %d rows, %d batches abandoned",
				report.RowsCopied, report.TotalRows, report.BatchesFailed)
		} else {
			log.Printf("Copy done! Time elapsed: %s", time.Since(start))
		}
		return nil
	},
}

func confirmDrop(table string) bool {
	fmt.Printf("Target table %q will be DROPPED and recreated. Continue? [y/N] ", table)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printReport(r *schema.CopyReport) {
	icon := "✓"
	if r.Status != schema.StatusComplete {
		icon = "!"
	}
	fmt.Println("\n📊 Copy Report:")
	fmt.Printf("[%s] %-20s : %d/%d rows copied - %s\n", icon, r.Table, r.RowsCopied, r.TotalRows, r.Status)
	fmt.Printf("    Source size      : %.1f MB\n", r.SizeMB)
	fmt.Printf("    Batches          : %d attempted, %d abandoned\n", r.BatchesAttempted, r.BatchesFailed)
	fmt.Printf("    Counts           : source=%d target=%d matched=%v\n",
		r.Verify.SourceCount, r.Verify.TargetCount, r.Verify.Matched)
	fmt.Printf("    Throughput       : %.0f rows/sec\n", r.RowsPerSec)
	fmt.Println("    Phases:")
	fmt.Printf("      introspect     : %s\n", r.Phases.Introspect.Round(time.Millisecond))
	fmt.Printf("      schema         : %s\n", r.Phases.Schema.Round(time.Millisecond))
	fmt.Printf("      transfer       : %s\n", r.Phases.Transfer.Round(time.Millisecond))
	fmt.Printf("      verify         : %s\n", r.Phases.Verify.Round(time.Millisecond))
	fmt.Printf("      total          : %s\n", r.Phases.Total.Round(time.Millisecond))
}

func init() {
	RootCmd.AddCommand(copyCmd)

	copyCmd.Flags().StringVarP(&copyTable, "table", "t", "", "Table to copy (required)")
	copyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the drop-table confirmation prompt")
	copyCmd.Flags().Int("batch-size", 0, "Rows per insert statement (overrides config)")
	copyCmd.Flags().Int("page-size", 0, "Rows per source fetch (overrides config)")
	copyCmd.Flags().Int("max-retries", 0, "Insert attempts per batch (overrides config)")
	copyCmd.Flags().Int("checkpoint-interval", 0, "Rows between checkpoint log lines (overrides config)")

	viper.BindPFlag("settings.batch_size", copyCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("settings.page_size", copyCmd.Flags().Lookup("page-size"))
	viper.BindPFlag("settings.max_retries", copyCmd.Flags().Lookup("max-retries"))
	viper.BindPFlag("settings.checkpoint_interval", copyCmd.Flags().Lookup("checkpoint-interval"))
}
