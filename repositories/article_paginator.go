package repositories

import (
	"strings"
	"time"

	"board-cms/dbctx"
	"board-cms/models"

	"gorm.io/gorm"
)

// CursorPaginator pages articles in (updated_at DESC, id DESC) order. The id
// tie-break matters because bulk inserts share timestamps.
type CursorPaginator interface {
	// ResolveCursor looks up the updated_at of a cursor id. The article must
	// exist and carry the status being searched, else ErrInvalidCursor.
	ResolveCursor(dbc dbctx.Context, criteria models.SearchCriteria, id string) (*models.Cursor, error)
	// Page returns up to size rows strictly after cursor (nil = first page).
	Page(dbc dbctx.Context, criteria models.SearchCriteria, cursor *models.Cursor, size int) (models.ArticlePage, error)
}

type cursorPaginator struct {
	db *gorm.DB
}

func NewCursorPaginator(db *gorm.DB) CursorPaginator {
	return &cursorPaginator{db: db}
}

func (p *cursorPaginator) ResolveCursor(dbc dbctx.Context, criteria models.SearchCriteria, id string) (*models.Cursor, error) {
	criteria = criteria.Normalize()
	var row struct {
		ID        string
		UpdatedAt time.Time
	}
	res := dbc.DB(p.db).
		Model(&models.Article{}).
		Select("id", "updated_at").
		Where("id = ? AND status = ?", id, criteria.Status).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, mapError(res.Error, models.ErrInvalidCursor)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrInvalidCursor
	}
	return &models.Cursor{ID: row.ID, UpdatedAt: row.UpdatedAt.UTC()}, nil
}

func (p *cursorPaginator) Page(dbc dbctx.Context, criteria models.SearchCriteria, cursor *models.Cursor, size int) (models.ArticlePage, error) {
	if size < 1 {
		size = 1
	}
	query := p.filtered(dbc, criteria.Normalize())
	if cursor != nil {
		query = query.Where(
			"((articles.updated_at < ?) OR (articles.updated_at = ? AND articles.id < ?))",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.ID,
		)
	}

	var rows []models.Article
	err := query.
		Order("articles.updated_at desc").
		Order("articles.id desc").
		Limit(size + 1).
		Find(&rows).Error
	if err != nil {
		return models.ArticlePage{}, err
	}
	return slicePage(rows, size), nil
}

// filtered applies every criterion. Status is always part of the filter so
// BLOCKED and DELETED rows only show up when asked for by name.
func (p *cursorPaginator) filtered(dbc dbctx.Context, c models.SearchCriteria) *gorm.DB {
	query := dbc.DB(p.db).Model(&models.Article{}).Where("articles.status = ?", c.Status)
	if c.BoardID != nil {
		query = query.Where("articles.board_id = ?", *c.BoardID)
	}
	if len(c.KeywordIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM keyword_mappings km WHERE km.article_id = articles.id AND km.keyword_id IN ?)",
			c.KeywordIDs,
		)
	}
	if c.Title != "" {
		query = query.Where("articles.title LIKE ? ESCAPE '\\'", containsPattern(c.Title))
	}
	if c.Content != "" {
		query = query.Where("articles.content LIKE ? ESCAPE '\\'", containsPattern(c.Content))
	}
	if len(c.WriterIDs) > 0 {
		query = query.Where("articles.writer_id IN ?", c.WriterIDs)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// slicePage trims the over-fetched row. A next cursor exists only when the
// extra row proved there is more to read.
func slicePage(rows []models.Article, size int) models.ArticlePage {
	page := models.ArticlePage{Items: rows, Size: size}
	if len(rows) > size {
		page.Items = rows[:size]
		page.HasNext = true
		last := page.Items[size-1]
		id, updatedAt := last.ID, last.UpdatedAt.UTC()
		page.NextCursorID = &id
		page.NextCursorUpdatedAt = &updatedAt
	}
	if page.Items == nil {
		page.Items = []models.Article{}
	}
	return page
}
