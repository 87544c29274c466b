package cmd

import (
	"context"
	"fmt"
	"strings"

	"db-copy/internal/dialect"
	"db-copy/internal/engine"

	"github.com/spf13/cobra"
)

var (
	verifyTable  string
	verifySample int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare source and target row counts for a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyTable == "" {
			return fmt.Errorf("--table is required")
		}
		ctx := context.Background()

		verifier := engine.NewVerifier(
			SourceDB, TargetDB,
			dialect.GetSourceDialect(SourceDriver),
			dialect.GetTargetDialect(TargetDriver),
		)
		result, err := verifier.Counts(ctx, verifyTable)
		if err != nil {
			return err
		}

		icon := "✓"
		if !result.Matched {
			icon = "!"
		}
		fmt.Printf("[%s] %s: source=%d target=%d matched=%v\n",
			icon, verifyTable, result.SourceCount, result.TargetCount, result.Matched)

		if verifySample > 0 {
			cols, rows, err := verifier.SampleRows(ctx, verifyTable, verifySample)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(cols, " | "))
			for _, row := range rows {
				parts := make([]string, len(row))
				for i, v := range row {
					if b, ok := v.([]byte); ok {
						v = string(b)
					}
					parts[i] = fmt.Sprintf("%v", v)
				}
				fmt.Println(strings.Join(parts, " | "))
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyTable, "table", "t", "", "Table to verify (required)")
	verifyCmd.Flags().IntVar(&verifySample, "sample", 0, "Print the first N target rows as a spot check")
}
