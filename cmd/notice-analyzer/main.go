// Package main is the entry point for the notice-analyzer CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/notice-analyzer/internal/common"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	v      = viper.New()
	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "notice-analyzer",
	Short: "Extract structured fields from tax and legal notices",
	Long: `notice-analyzer reads scanned or digital tax notices (PDF, images, plain
text), recognises the text, translates Hindi and Telugu notices into English
and extracts the taxpayer identifiers, dates, penalty amount, cited sections,
notice type and issuing office.

Each mode is a subcommand: analyze a single document, batch a directory,
watch inbox directories, or export stored results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "Warning: could not load .env:", err)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := common.LoadConfig(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = c

		logger = common.NewLogger(os.Stderr, cfg.Log.Format, common.ParseLevel(cfg.Log.Level))
		slog.SetDefault(logger)
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notice-analyzer.yaml or ~/.config/notice-analyzer/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("strategy", "", "field extraction strategy: pattern or entity")
	rootCmd.PersistentFlags().String("store", "", "result store driver: none, sqlite or postgres")
	rootCmd.PersistentFlags().String("dsn", "", "result store DSN (sqlite file path or postgres URL)")

	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("pipeline.strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	_ = v.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))
	_ = v.BindPFlag("store.dsn", rootCmd.PersistentFlags().Lookup("dsn"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
