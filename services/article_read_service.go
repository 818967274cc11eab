package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"board-cms/dbctx"
	"board-cms/logger"
	"board-cms/models"
	"board-cms/repositories"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest addresses one page of a search. CursorID alone is resolved
// against the store; CursorID with CursorUpdatedAt is used as given.
type PageRequest struct {
	Size            int
	CursorID        string
	CursorUpdatedAt *time.Time
}

type ArticleReadService interface {
	FetchArticleByID(ctx context.Context, id string) (*models.Article, error)
	SearchArticles(ctx context.Context, criteria models.SearchCriteria, page PageRequest) (models.ArticlePage, error)
}

type ReadServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type articleReadService struct {
	db          *gorm.DB
	articleRepo repositories.ArticleRepository
	paginator   repositories.CursorPaginator
	log         *logger.Logger

	defaultSize int
	maxSize     int
}

func NewArticleReadService(
	db *gorm.DB,
	articleRepo repositories.ArticleRepository,
	paginator repositories.CursorPaginator,
	log *logger.Logger,
	cfg ReadServiceConfig,
) ArticleReadService {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = MaxPageSize
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}
	return &articleReadService{
		db:          db,
		articleRepo: articleRepo,
		paginator:   paginator,
		log:         log.With("service", "article_read"),
		defaultSize: cfg.DefaultPageSize,
		maxSize:     cfg.MaxPageSize,
	}
}

// FetchArticleByID hides deleted articles and refuses blocked ones.
func (s *articleReadService) FetchArticleByID(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if err := article.Readable(); err != nil {
		return nil, fmt.Errorf("article %s: %w", id, err)
	}
	return article, nil
}

func (s *articleReadService) SearchArticles(ctx context.Context, criteria models.SearchCriteria, req PageRequest) (models.ArticlePage, error) {
	criteria = criteria.Normalize()
	size := s.pageSize(req.Size)

	var page models.ArticlePage
	// One transaction, but at READ COMMITTED each statement sees its own
	// snapshot. A cursor article that changes status between the two reads
	// only shifts the page; one already gone fails as ErrInvalidCursor.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cursor, err := s.cursor(dbc, criteria, req)
		if err != nil {
			return err
		}
		page, err = s.paginator.Page(dbc, criteria, cursor, size)
		return err
	})
	if err != nil {
		return models.ArticlePage{}, err
	}

	s.log.Debug("article search", "status", criteria.Status, "size", size, "returned", len(page.Items), "has_next", page.HasNext)
	return page, nil
}

func (s *articleReadService) pageSize(requested int) int {
	switch {
	case requested <= 0:
		return s.defaultSize
	case requested > s.maxSize:
		return s.maxSize
	}
	return requested
}

func (s *articleReadService) cursor(dbc dbctx.Context, criteria models.SearchCriteria, req PageRequest) (*models.Cursor, error) {
	id := strings.TrimSpace(req.CursorID)
	if id == "" {
		if req.CursorUpdatedAt != nil {
			return nil, fmt.Errorf("%w: cursor_updated_at without cursor_id", models.ErrInvalidCursor)
		}
		return nil, nil
	}
	if req.CursorUpdatedAt != nil {
		return &models.Cursor{ID: id, UpdatedAt: req.CursorUpdatedAt.UTC()}, nil
	}
	return s.paginator.ResolveCursor(dbc, criteria, id)
}
