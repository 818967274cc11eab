package services

import (
	"context"
	"fmt"

	"board-cms/dbctx"
	"board-cms/logger"
	"board-cms/models"
	"board-cms/publisher"
	"board-cms/repositories"

	"github.com/google/uuid"
)

// ArticleService owns every write to the article aggregate. Each call runs in
// one transaction against a row-locked article and publishes after commit.
type ArticleService interface {
	CreateArticle(ctx context.Context, req models.CreateArticleRequest) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	ActivateArticle(ctx context.Context, id string) (*models.Article, error)
	BlockArticle(ctx context.Context, id string) (*models.Article, error)
	IncrementViewCount(ctx context.Context, id string) (*models.Article, error)

	AddImage(ctx context.Context, id string, req models.AddImageRequest) (*models.Article, error)
	RemoveImage(ctx context.Context, id, imageID string) (*models.Article, error)
	RemoveImages(ctx context.Context, id string) (*models.Article, error)

	AddKeyword(ctx context.Context, id, keywordID string) (*models.Article, error)
	RemoveKeyword(ctx context.Context, id, keywordID string) (*models.Article, error)
	ReplaceKeywords(ctx context.Context, id string, keywordIDs []string) (*models.Article, error)
}

type ArticleServiceConfig struct {
	NoticeBoardName string
	EventBoardName  string
	// NewID defaults to uuid.NewString.
	NewID func() string
}

type articleService struct {
	tx          repositories.TxRunner
	articleRepo repositories.ArticleRepository
	boardRepo   repositories.BoardRepository
	keywordRepo repositories.KeywordRepository
	publisher   publisher.Publisher
	log         *logger.Logger

	newID           func() string
	noticeBoardName string
	eventBoardName  string
}

func NewArticleService(
	tx repositories.TxRunner,
	articleRepo repositories.ArticleRepository,
	boardRepo repositories.BoardRepository,
	keywordRepo repositories.KeywordRepository,
	pub publisher.Publisher,
	log *logger.Logger,
	cfg ArticleServiceConfig,
) ArticleService {
	if pub == nil {
		pub = publisher.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &articleService{
		tx:              tx,
		articleRepo:     articleRepo,
		boardRepo:       boardRepo,
		keywordRepo:     keywordRepo,
		publisher:       pub,
		log:             log.With("service", "article"),
		newID:           cfg.NewID,
		noticeBoardName: cfg.NoticeBoardName,
		eventBoardName:  cfg.EventBoardName,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, req models.CreateArticleRequest) (*models.Article, error) {
	window := req.EventWindow()

	var created *models.Article
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		boardID, articleType, err := s.resolveBoard(dbc, req.BoardID, window != nil)
		if err != nil {
			return err
		}

		article, err := constructArticle(articleType, models.NewArticleParams{
			ID:          s.newID(),
			Title:       req.Title,
			Content:     req.Content,
			WriterID:    req.WriterID,
			BoardID:     boardID,
			EventWindow: window,
		})
		if err != nil {
			return err
		}

		keywords, err := s.loadKeywords(dbc, req.KeywordIDs)
		if err != nil {
			return err
		}
		for _, k := range keywords {
			article.AddKeyword(k)
		}
		for _, img := range req.Images {
			article.AddImage(img.ImageID, img.ImageURL)
		}
		// Collections are part of the initial state, not a later edit.
		article.UpdatedAt = article.CreatedAt

		applied, err := s.articleRepo.Create(dbc, article)
		if err != nil {
			return err
		}
		if err := s.keywordRepo.ApplyUsageChanges(dbc, applied); err != nil {
			return err
		}
		created = article
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("article created", "article_id", created.ID, "type", created.Type, "board_id", created.BoardID)
	s.publish(ctx, publisher.ArticleCreated, created)
	return created, nil
}

// resolveBoard classifies the new article and returns the board it belongs
// to. Events and notices are pinned to their well-known boards.
func (s *articleService) resolveBoard(dbc dbctx.Context, requested string, hasEventWindow bool) (string, models.ArticleType, error) {
	var boardName string
	if requested != "" {
		board, err := s.boardRepo.GetByID(dbc, requested)
		switch {
		case err == nil:
			boardName = board.Name
		case !hasEventWindow:
			return "", "", err
		}
	}

	articleType := ClassifyArticleType(requested, boardName, s.noticeBoardName, hasEventWindow)
	fixed := s.fixedBoardName(articleType)
	if fixed == "" {
		if boardName == "" {
			return "", "", fmt.Errorf("%w: board_id is required", models.ErrBoardNotFound)
		}
		return requested, articleType, nil
	}

	board, err := s.boardRepo.GetByName(dbc, fixed)
	if err != nil {
		return "", "", fmt.Errorf("%s board %q: %w", articleType, fixed, err)
	}
	return board.ID, articleType, nil
}

// loadKeywords returns the keywords in request order, dropping duplicates.
func (s *articleService) loadKeywords(dbc dbctx.Context, ids []string) ([]*models.Keyword, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.keywordRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Keyword, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]*models.Keyword, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		k, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrKeywordNotFound, id)
		}
		out = append(out, k)
	}
	return out, nil
}

// mutation edits a locked article in place and reports whether anything
// needs to be written.
type mutation func(dbc dbctx.Context, article *models.Article) (bool, error)

func (s *articleService) mutate(ctx context.Context, id string, fn mutation) (*models.Article, bool, error) {
	var (
		out     *models.Article
		changed bool
	)
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		article, err := s.articleRepo.GetByIDForUpdate(dbc, id)
		if err != nil {
			return err
		}
		changed, err = fn(dbc, article)
		if err != nil {
			return err
		}
		out = article
		if !changed {
			return nil
		}

		applied, err := s.articleRepo.Save(dbc, article)
		if err != nil {
			return err
		}
		return s.keywordRepo.ApplyUsageChanges(dbc, applied)
	})
	if err != nil {
		return nil, false, err
	}
	return out, changed, nil
}

// mutateLive is mutate for edits that deleted articles no longer accept.
func (s *articleService) mutateLive(ctx context.Context, id string, event publisher.EventType, fn mutation) (*models.Article, error) {
	article, changed, err := s.mutate(ctx, id, func(dbc dbctx.Context, a *models.Article) (bool, error) {
		if a.IsDeleted() {
			return false, models.ErrNotFound
		}
		return fn(dbc, a)
	})
	if err != nil {
		return nil, err
	}
	if changed && event != "" {
		s.publish(ctx, event, article)
	}
	return article, nil
}

func (s *articleService) UpdateArticle(ctx context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error) {
	article, err := s.mutateLive(ctx, id, publisher.ArticleUpdated, func(dbc dbctx.Context, a *models.Article) (bool, error) {
		changed := false
		if w := req.EventWindow(); w != nil {
			windowChanged, err := a.UpdateEventWindow(*w)
			if err != nil {
				return false, err
			}
			changed = windowChanged
		}
		if a.UpdateContent(req.Title, req.Content) {
			changed = true
		}
		if req.KeywordIDs != nil {
			keywords, err := s.loadKeywords(dbc, *req.KeywordIDs)
			if err != nil {
				return false, err
			}
			a.ReplaceKeywords(keywords)
			if len(a.KeywordChanges()) > 0 {
				changed = true
			}
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("article updated", "article_id", id, "version", article.Version)
	return article, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, id string) error {
	article, err := s.mutateLive(ctx, id, publisher.ArticleDeleted, func(_ dbctx.Context, a *models.Article) (bool, error) {
		a.Delete()
		return true, nil
	})
	if err != nil {
		return err
	}
	s.log.Info("article deleted", "article_id", article.ID)
	return nil
}

func (s *articleService) ActivateArticle(ctx context.Context, id string) (*models.Article, error) {
	return s.changeStatus(ctx, id, (*models.Article).Activate)
}

func (s *articleService) BlockArticle(ctx context.Context, id string) (*models.Article, error) {
	return s.changeStatus(ctx, id, (*models.Article).Block)
}

func (s *articleService) changeStatus(ctx context.Context, id string, transition func(*models.Article)) (*models.Article, error) {
	article, changed, err := s.mutate(ctx, id, func(_ dbctx.Context, a *models.Article) (bool, error) {
		before := a.Status
		transition(a)
		return a.Status != before, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info("article status changed", "article_id", article.ID, "status", article.Status)
		s.publish(ctx, publisher.ArticleUpdated, article)
	}
	return article, nil
}

// IncrementViewCount is only allowed on readable articles and does not
// publish.
func (s *articleService) IncrementViewCount(ctx context.Context, id string) (*models.Article, error) {
	article, _, err := s.mutate(ctx, id, func(_ dbctx.Context, a *models.Article) (bool, error) {
		if err := a.Readable(); err != nil {
			return false, err
		}
		a.IncrementViewCount()
		return true, nil
	})
	return article, err
}

func (s *articleService) AddImage(ctx context.Context, id string, req models.AddImageRequest) (*models.Article, error) {
	return s.mutateLive(ctx, id, publisher.ArticleUpdated, func(_ dbctx.Context, a *models.Article) (bool, error) {
		return a.AddImage(req.ImageID, req.ImageURL) != nil, nil
	})
}

func (s *articleService) RemoveImage(ctx context.Context, id, imageID string) (*models.Article, error) {
	return s.mutateLive(ctx, id, publisher.ArticleUpdated, func(_ dbctx.Context, a *models.Article) (bool, error) {
		return a.RemoveImage(a.FindImage(imageID)), nil
	})
}

func (s *articleService) RemoveImages(ctx context.Context, id string) (*models.Article, error) {
	return s.mutateLive(ctx, id, publisher.ArticleUpdated, func(_ dbctx.Context, a *models.Article) (bool, error) {
		return a.RemoveImages(), nil
	})
}

func (s *articleService) AddKeyword(ctx context.Context, id, keywordID string) (*models.Article, error) {
	return s.mutateLive(ctx, id, publisher.ArticleUpdated, func(dbc dbctx.Context, a *models.Article) (bool, error) {
		keyword, err := s.keywordRepo.GetByID(dbc, keywordID)
		if err != nil {
			return false, err
		}
		return a.AddKeyword(keyword), nil
	})
}

// RemoveKeyword is a no-op when the keyword is not mapped, known or not.
func (s *articleService) RemoveKeyword(ctx context.Context, id, keywordID string) (*models.Article, error) {
	return s.mutateLive(ctx, id, publisher.ArticleUpdated, func(_ dbctx.Context, a *models.Article) (bool, error) {
		for _, m := range a.KeywordMappings {
			if m.KeywordID != keywordID {
				continue
			}
			keyword := m.Keyword
			if keyword == nil {
				keyword = &models.Keyword{ID: keywordID}
			}
			return a.RemoveKeyword(keyword), nil
		}
		return false, nil
	})
}

func (s *articleService) ReplaceKeywords(ctx context.Context, id string, keywordIDs []string) (*models.Article, error) {
	return s.mutateLive(ctx, id, publisher.ArticleUpdated, func(dbc dbctx.Context, a *models.Article) (bool, error) {
		keywords, err := s.loadKeywords(dbc, keywordIDs)
		if err != nil {
			return false, err
		}
		a.ReplaceKeywords(keywords)
		return len(a.KeywordChanges()) > 0, nil
	})
}

// publish never fails the caller: the write has already committed.
func (s *articleService) publish(ctx context.Context, t publisher.EventType, article *models.Article) {
	if err := s.publisher.Publish(ctx, publisher.NewArticleEvent(t, *article)); err != nil {
		s.log.Warn("publish article event failed", "event", t, "article_id", article.ID, "error", err)
	}
}
