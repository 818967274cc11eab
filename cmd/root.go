package cmd

import (
	"fmt"
	"os"

	"board-cms/config"
	"board-cms/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "board-cms",
	Short: "board-cms - boards, articles and keywords behind a REST API",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and opens the logger and database shared by
// every subcommand.
func bootstrap() (config.Config, *logger.Logger, *gorm.DB, error) {
	envErr := godotenv.Load(envFile)
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		log.Debug("no dotenv file loaded", "path", envFile)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Sync()
		return cfg, nil, nil, err
	}
	return cfg, log, db, nil
}
