package testutil

import (
	"fmt"
	"testing"
	"time"

	"board-cms/config"
	"board-cms/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedBoard(tb testing.TB, db *gorm.DB, name string) *models.Board {
	tb.Helper()
	b := &models.Board{ID: uuid.NewString(), Name: name, IsActive: true}
	if err := db.Create(b).Error; err != nil {
		tb.Fatalf("seed board: %v", err)
	}
	return b
}

func SeedKeyword(tb testing.TB, db *gorm.DB, name string, boardID *string) *models.Keyword {
	tb.Helper()
	k := &models.Keyword{ID: uuid.NewString(), Name: name, BoardID: boardID, IsActive: true}
	if err := db.Create(k).Error; err != nil {
		tb.Fatalf("seed keyword: %v", err)
	}
	return k
}

// SeedArticle inserts a row directly, bypassing the aggregate, so tests can
// pin updated_at and status. Mappings are created for keywords and their
// usage counters bumped.
func SeedArticle(tb testing.TB, db *gorm.DB, id, boardID string, updatedAt time.Time, status models.ArticleStatus, keywords ...*models.Keyword) *models.Article {
	tb.Helper()
	a := &models.Article{
		ID:        id,
		Type:      models.TypeRegular,
		Title:     "title " + id,
		Content:   "content " + id,
		WriterID:  "writer",
		BoardID:   boardID,
		Status:    status,
		Version:   1,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	if err := db.Omit("Images", "KeywordMappings").Create(a).Error; err != nil {
		tb.Fatalf("seed article: %v", err)
	}
	for _, k := range keywords {
		m := &models.KeywordMapping{ArticleID: id, KeywordID: k.ID, CreatedAt: updatedAt}
		if err := db.Omit("Keyword").Create(m).Error; err != nil {
			tb.Fatalf("seed mapping: %v", err)
		}
		if err := db.Model(&models.Keyword{}).Where("id = ?", k.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			tb.Fatalf("seed usage: %v", err)
		}
	}
	return a
}
