package cmd

import (
	"context"
	"fmt"

	"board-cms/config"
	"board-cms/logger"
	"board-cms/repositories"
	"board-cms/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and the well-known boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		return migrate(cmd.Context(), cfg, db, log)
	},
}

func migrate(ctx context.Context, cfg config.Config, db *gorm.DB, log *logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	boards := services.NewBoardService(repositories.NewBoardRepository(db))
	for _, name := range []string{cfg.NoticeBoardName, cfg.EventBoardName} {
		board, err := boards.EnsureBoard(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure board %q: %w", name, err)
		}
		log.Info("board ready", "name", board.Name, "id", board.ID)
	}
	log.Info("migration complete")
	return nil
}
