package cmd

import (
	"context"
	"fmt"
	"time"

	"board-cms/dbctx"
	"board-cms/logger"
	"board-cms/models"
	"board-cms/repositories"
	"board-cms/services"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedCount     int
	seedBatchSize int
	seedBoardName string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample articles in bulk, sharing timestamps per batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := migrate(ctx, cfg, db, log); err != nil {
			return err
		}
		return seed(ctx, db, log, seedOptions{
			Count:     seedCount,
			BatchSize: seedBatchSize,
			BoardName: seedBoardName,
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 1000, "number of articles to insert")
	seedCmd.Flags().IntVar(&seedBatchSize, "batch", 200, "rows per insert batch")
	seedCmd.Flags().StringVar(&seedBoardName, "board", "general", "board receiving the articles")
}

type seedOptions struct {
	Count     int
	BatchSize int
	BoardName string
}

var seedKeywords = []string{"go", "database", "release", "howto", "community"}

// seed writes articles batch by batch. Every article of a batch carries the
// same updated_at, which is the case keyset pagination has to break ties on.
func seed(ctx context.Context, db *gorm.DB, log *logger.Logger, opts seedOptions) error {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}

	boardRepo := repositories.NewBoardRepository(db)
	keywordRepo := repositories.NewKeywordRepository(db)
	board, err := services.NewBoardService(boardRepo).EnsureBoard(ctx, opts.BoardName)
	if err != nil {
		return err
	}

	keywordIDs, err := ensureSeedKeywords(ctx, keywordRepo)
	if err != nil {
		return err
	}

	return repositories.NewTxRunner(db).InTx(ctx, func(dbc dbctx.Context) error {
		for start := 0; start < opts.Count; start += opts.BatchSize {
			n := opts.BatchSize
			if start+n > opts.Count {
				n = opts.Count - start
			}
			stamp := time.Now().UTC().Truncate(time.Microsecond)

			articles := make([]models.Article, 0, n)
			mappings := make([]models.KeywordMapping, 0, n)
			for i := 0; i < n; i++ {
				id := uuid.NewString()
				articles = append(articles, models.Article{
					ID:        id,
					Type:      models.TypeRegular,
					Title:     fmt.Sprintf("Sample article %d", start+i+1),
					Content:   "Generated by the seed command.",
					WriterID:  fmt.Sprintf("writer-%d", (start+i)%7),
					BoardID:   board.ID,
					Status:    models.StatusActive,
					Version:   1,
					CreatedAt: stamp,
					UpdatedAt: stamp,
				})
				mappings = append(mappings, models.KeywordMapping{
					ArticleID: id,
					KeywordID: keywordIDs[(start+i)%len(keywordIDs)],
					CreatedAt: stamp,
				})
			}

			if err := dbc.Tx.Omit(clause.Associations).CreateInBatches(articles, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert articles: %w", err)
			}
			if err := dbc.Tx.Omit("Keyword").CreateInBatches(mappings, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert keyword mappings: %w", err)
			}
			log.Debug("seed batch written", "offset", start, "rows", n)
		}

		if err := keywordRepo.RecountUsage(dbc); err != nil {
			return err
		}
		log.Info("seed complete", "articles", opts.Count, "board", board.Name)
		return nil
	})
}

func ensureSeedKeywords(ctx context.Context, keywordRepo repositories.KeywordRepository) ([]string, error) {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := keywordRepo.GetAll(dbc, nil)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(existing))
	for _, k := range existing {
		if k.BoardID == nil {
			byName[k.Name] = k.ID
		}
	}

	ids := make([]string, 0, len(seedKeywords))
	for _, name := range seedKeywords {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
			continue
		}
		k := &models.Keyword{ID: uuid.NewString(), Name: name, IsActive: true}
		if err := keywordRepo.Create(dbc, k); err != nil {
			return nil, fmt.Errorf("create keyword %q: %w", name, err)
		}
		ids = append(ids, k.ID)
	}
	return ids, nil
}
