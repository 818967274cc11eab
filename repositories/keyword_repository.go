package repositories

import (
	"board-cms/dbctx"
	"board-cms/models"

	"gorm.io/gorm"
)

type KeywordRepository interface {
	Create(dbc dbctx.Context, keyword *models.Keyword) error
	GetByID(dbc dbctx.Context, id string) (*models.Keyword, error)
	GetByIDs(dbc dbctx.Context, ids []string) ([]models.Keyword, error)
	GetAll(dbc dbctx.Context, boardID *string) ([]models.Keyword, error)
	ApplyUsageChanges(dbc dbctx.Context, changes []models.KeywordChange) error
	// RecountUsage rebuilds every usage_count from the mapping table.
	RecountUsage(dbc dbctx.Context) error
}

type keywordRepository struct {
	db *gorm.DB
}

func NewKeywordRepository(db *gorm.DB) KeywordRepository {
	return &keywordRepository{db: db}
}

func (r *keywordRepository) Create(dbc dbctx.Context, keyword *models.Keyword) error {
	return mapError(dbc.DB(r.db).Create(keyword).Error, models.ErrKeywordNotFound)
}

func (r *keywordRepository) GetByID(dbc dbctx.Context, id string) (*models.Keyword, error) {
	var keyword models.Keyword
	err := dbc.DB(r.db).Where("id = ?", id).Take(&keyword).Error
	if err != nil {
		return nil, mapError(err, models.ErrKeywordNotFound)
	}
	return &keyword, nil
}

func (r *keywordRepository) GetByIDs(dbc dbctx.Context, ids []string) ([]models.Keyword, error) {
	if len(ids) == 0 {
		return []models.Keyword{}, nil
	}
	var keywords []models.Keyword
	err := dbc.DB(r.db).Where("id IN ?", ids).Find(&keywords).Error
	return keywords, err
}

// GetAll lists every keyword, or when boardID is set the keywords usable on
// that board: its own plus the global ones.
func (r *keywordRepository) GetAll(dbc dbctx.Context, boardID *string) ([]models.Keyword, error) {
	var keywords []models.Keyword
	query := dbc.DB(r.db)
	if boardID != nil {
		query = query.Where("board_id = ? OR board_id IS NULL", *boardID)
	}
	err := query.Order("usage_count desc").Order("name asc").Find(&keywords).Error
	return keywords, err
}

// ApplyUsageChanges replays membership changes as atomic counter updates in
// their original order. Decrements never go below zero.
func (r *keywordRepository) ApplyUsageChanges(dbc dbctx.Context, changes []models.KeywordChange) error {
	db := dbc.DB(r.db)
	for _, ch := range changes {
		expr := gorm.Expr("usage_count + 1")
		if !ch.Added {
			expr = gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")
		}
		err := db.Model(&models.Keyword{}).
			Where("id = ?", ch.KeywordID).
			UpdateColumn("usage_count", expr).Error
		if err != nil {
			return mapError(err, models.ErrKeywordNotFound)
		}
	}
	return nil
}

func (r *keywordRepository) RecountUsage(dbc dbctx.Context) error {
	return dbc.DB(r.db).Exec(
		"UPDATE keywords SET usage_count = (SELECT COUNT(*) FROM keyword_mappings km WHERE km.keyword_id = keywords.id)",
	).Error
}
