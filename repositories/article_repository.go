package repositories

import (
	"fmt"
	"time"

	"board-cms/dbctx"
	"board-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepository interface {
	// Create inserts the article with its images and mappings. It returns the
	// mapping changes that took effect so usage counters can follow them.
	Create(dbc dbctx.Context, article *models.Article) ([]models.KeywordChange, error)
	// GetByID loads an article in any status.
	GetByID(dbc dbctx.Context, id string) (*models.Article, error)
	// GetByIDForUpdate row-locks the article for the enclosing transaction and
	// loads its collections, including keyword rows.
	GetByIDForUpdate(dbc dbctx.Context, id string) (*models.Article, error)
	// Save writes a mutated aggregate guarded by its version.
	Save(dbc dbctx.Context, article *models.Article) ([]models.KeywordChange, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sequence asc")
}

func orderedMappings(db *gorm.DB) *gorm.DB {
	return db.Order("created_at asc").Order("keyword_id asc")
}

func (r *articleRepository) Create(dbc dbctx.Context, article *models.Article) ([]models.KeywordChange, error) {
	db := dbc.DB(r.db)
	if err := db.Omit(clause.Associations).Create(article).Error; err != nil {
		return nil, mapError(err, models.ErrNotFound)
	}
	return r.persistCollections(db, article)
}

func (r *articleRepository) GetByID(dbc dbctx.Context, id string) (*models.Article, error) {
	var article models.Article
	err := dbc.DB(r.db).
		Preload("Images", orderedImages).
		Preload("KeywordMappings", orderedMappings).
		Where("id = ?", id).
		Take(&article).Error
	if err != nil {
		return nil, mapError(err, models.ErrNotFound)
	}
	return &article, nil
}

func (r *articleRepository) GetByIDForUpdate(dbc dbctx.Context, id string) (*models.Article, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("GetByIDForUpdate requires dbc.Tx")
	}
	var article models.Article
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Images", orderedImages).
		Preload("KeywordMappings", orderedMappings).
		Preload("KeywordMappings.Keyword").
		Where("id = ?", id).
		Take(&article).Error
	if err != nil {
		return nil, mapError(err, models.ErrNotFound)
	}
	return &article, nil
}

func (r *articleRepository) Save(dbc dbctx.Context, article *models.Article) ([]models.KeywordChange, error) {
	db := dbc.DB(r.db)
	res := db.Model(&models.Article{}).
		Where("id = ? AND version = ?", article.ID, article.Version).
		Updates(map[string]interface{}{
			"title":           article.Title,
			"content":         article.Content,
			"board_id":        article.BoardID,
			"status":          article.Status,
			"view_count":      article.ViewCount,
			"cover_image_url": article.CoverImageURL,
			"image_sequence":  article.ImageSequence,
			"event_start_at":  article.EventStartAt,
			"event_end_at":    article.EventEndAt,
			"updated_at":      article.UpdatedAt,
			"version":         article.Version + 1,
		})
	if res.Error != nil {
		return nil, mapError(res.Error, models.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: article %s changed since version %d", models.ErrConflict, article.ID, article.Version)
	}
	article.Version++
	return r.persistCollections(db, article)
}

// persistCollections syncs image rows to the in-memory list and replays the
// pending keyword journal. Only changes that touched a row are returned.
func (r *articleRepository) persistCollections(db *gorm.DB, article *models.Article) ([]models.KeywordChange, error) {
	sequences := make([]int, 0, len(article.Images))
	for _, img := range article.Images {
		sequences = append(sequences, img.Sequence)
	}
	stale := db.Where("article_id = ?", article.ID)
	if len(sequences) > 0 {
		stale = stale.Where("sequence NOT IN ?", sequences)
	}
	if err := stale.Delete(&models.Image{}).Error; err != nil {
		return nil, mapError(err, models.ErrNotFound)
	}
	for i := range article.Images {
		if article.Images[i].ID != 0 {
			continue
		}
		article.Images[i].ArticleID = article.ID
		if err := db.Create(&article.Images[i]).Error; err != nil {
			return nil, mapError(err, models.ErrNotFound)
		}
	}

	var applied []models.KeywordChange
	for _, ch := range article.KeywordChanges() {
		var res *gorm.DB
		if ch.Added {
			mapping := models.KeywordMapping{
				ArticleID: article.ID,
				KeywordID: ch.KeywordID,
				CreatedAt: mappedAt(article, ch.KeywordID),
			}
			res = db.Clauses(clause.OnConflict{DoNothing: true}).Omit("Keyword").Create(&mapping)
		} else {
			res = db.Where("article_id = ? AND keyword_id = ?", article.ID, ch.KeywordID).
				Delete(&models.KeywordMapping{})
		}
		if res.Error != nil {
			return nil, mapError(res.Error, models.ErrKeywordNotFound)
		}
		if res.RowsAffected > 0 {
			applied = append(applied, ch)
		}
	}
	article.ClearPendingChanges()
	return applied, nil
}

// mappedAt is the in-memory creation time of a live mapping. A mapping added
// and removed again in the same journal is deleted before commit, so the
// article's own timestamp serves.
func mappedAt(article *models.Article, keywordID string) time.Time {
	for _, m := range article.KeywordMappings {
		if m.KeywordID == keywordID && !m.CreatedAt.IsZero() {
			return m.CreatedAt
		}
	}
	return article.UpdatedAt
}
