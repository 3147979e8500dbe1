package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/logger"
)

var (
	configPath string
	envFile    string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "asset-smith <command>",
	Short:         "Asset management API with a tool-calling LLM agent",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env yoksa environment değişkenleri kullanılır
		envErr := config.LoadDotEnv(envFile)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config yüklenemedi: %w", err)
		}
		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("logger kurulamadı: %w", err)
		}
		if envErr != nil {
			log.Debug(".env not loaded, using environment", "file", envFile)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $ASSET_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
