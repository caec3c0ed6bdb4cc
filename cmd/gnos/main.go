package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/logging"
)

var (
	// Global flags
	verbose    bool
	logFormat  string
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gnos",
	Short: "gnos - network map visibility predicates",
	Long: `gnos evaluates the predicate expressions that decide which elements of the
network map are drawn.

A predicate is a postfix expression over the current selection and the user's
option toggles, for example:

  options.OSPF '10.1.0.1' selection.name == and

Map elements and their predicates live in gnos.yaml (or a SQLite rules db).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		if logFormat != "" {
			cfg.Logging.Format = logFormat
		}
		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads path, or the nearest gnos.yaml when path is empty.
// Without a rules file the defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	return config.LoadConfig(path)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json (default from config)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Rules file (default: nearest gnos.yaml)")

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(visibleCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
