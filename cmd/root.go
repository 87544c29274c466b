package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/gops/agent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	sourceDSN    string
	targetDSN    string
	gopsDiag     bool
	SourceDB     *sql.DB
	TargetDB     *sql.DB
	SourceDriver string
	TargetDriver string
)

var RootCmd = &cobra.Command{
	Use:   "db-copy",
	Short: "A cross-dialect table copier",
	Long: `
  ____  ____     ____ ___  ______   __
 |  _ \|  _ \   / ___/ _ \|  _ \ \ / /
 | | | | |_) | | |  | | | | |_) \ V /
 | |_| |  _ <  | |__| |_| |  __/ | |
 |____/|_| \_\  \____\___/|_|    |_|

DB COPY - Streaming single-table copier (MySQL/MSSQL/Oracle -> Postgres)
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if gopsDiag {
			if err := agent.Listen(agent.Options{}); err != nil {
				return fmt.Errorf("failed to start gops agent: %w", err)
			}
		}

		source, err := GetEndpoint("source")
		if err != nil {
			return err
		}
		target, err := GetEndpoint("target")
		if err != nil {
			return err
		}
		SourceDriver = source.Driver
		TargetDriver = target.Driver

		SourceDB, err = sql.Open(source.Driver, source.DSN)
		if err != nil {
			return fmt.Errorf("failed to open source db: %w", err)
		}
		if err := SourceDB.Ping(); err != nil {
			return fmt.Errorf("failed to connect to source: %w", err)
		}

		TargetDB, err = sql.Open(target.Driver, target.DSN)
		if err != nil {
			return fmt.Errorf("failed to open target db: %w", err)
		}
		if err := TargetDB.Ping(); err != nil {
			return fmt.Errorf("failed to connect to target: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-copy.yaml)")
	RootCmd.PersistentFlags().StringVar(&sourceDSN, "source-dsn", "", "source Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&targetDSN, "target-dsn", "", "target Database Source Name (DSN)")
	RootCmd.PersistentFlags().BoolVar(&gopsDiag, "gops", false, "Start a gops diagnostics agent")

	viper.BindPFlag("source.dsn", RootCmd.PersistentFlags().Lookup("source-dsn"))
	viper.BindPFlag("target.dsn", RootCmd.PersistentFlags().Lookup("target-dsn"))

	viper.SetDefault("source.driver", "mysql")
	viper.SetDefault("target.driver", "postgres")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-copy")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
