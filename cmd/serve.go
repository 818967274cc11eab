package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"board-cms/config"
	"board-cms/handlers"
	"board-cms/helper"
	"board-cms/logger"
	"board-cms/publisher"
	"board-cms/repositories"
	"board-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.AutoMigrate {
			if err := migrate(cmd.Context(), cfg, db, log); err != nil {
				return err
			}
		}

		pub, closePub := newPublisher(cfg, log)
		defer closePub()

		if cfg.LogMode == "production" || cfg.LogMode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}
		router, err := buildRouter(cfg, db, pub, log)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("server starting", "port", cfg.Port, "db_driver", cfg.DBDriver)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// newPublisher falls back to a no-op publisher when Redis is not configured
// or not reachable; article writes never depend on it.
func newPublisher(cfg config.Config, log *logger.Logger) (publisher.Publisher, func()) {
	if cfg.RedisAddr == "" {
		return publisher.NoopPublisher{}, func() {}
	}
	pub, err := publisher.NewRedisPublisher(cfg.RedisAddr, cfg.RedisChannel)
	if err != nil {
		log.Warn("redis publisher unavailable, events disabled", "addr", cfg.RedisAddr, "error", err)
		return publisher.NoopPublisher{}, func() {}
	}
	log.Info("publishing article events", "addr", cfg.RedisAddr, "channel", cfg.RedisChannel)
	return pub, func() { _ = pub.Close() }
}

func buildRouter(cfg config.Config, db *gorm.DB, pub publisher.Publisher, log *logger.Logger) (*gin.Engine, error) {
	httpHelper, err := helper.NewHTTPHelper()
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	articleRepo := repositories.NewArticleRepository(db)
	boardRepo := repositories.NewBoardRepository(db)
	keywordRepo := repositories.NewKeywordRepository(db)
	paginator := repositories.NewCursorPaginator(db)
	txRunner := repositories.NewTxRunner(db)

	// Initialize services
	articleService := services.NewArticleService(txRunner, articleRepo, boardRepo, keywordRepo, pub, log,
		services.ArticleServiceConfig{
			NoticeBoardName: cfg.NoticeBoardName,
			EventBoardName:  cfg.EventBoardName,
		})
	readService := services.NewArticleReadService(db, articleRepo, paginator, log,
		services.ReadServiceConfig{
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
		})
	boardService := services.NewBoardService(boardRepo)
	keywordService := services.NewKeywordService(keywordRepo, boardRepo)

	// Initialize handlers
	return handlers.NewRouter(handlers.Handlers{
		Article: handlers.NewArticleHandler(articleService, readService, httpHelper),
		Board:   handlers.NewBoardHandler(boardService, httpHelper),
		Keyword: handlers.NewKeywordHandler(keywordService, httpHelper),
	}, log), nil
}
