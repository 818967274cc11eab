package services

import (
	"fmt"

	"board-cms/models"
)

// ClassifyArticleType picks the variant for a new article. An event window
// wins; otherwise the notice board makes a notice.
func ClassifyArticleType(boardID, resolvedBoardName, noticeBoardName string, hasEventWindow bool) models.ArticleType {
	switch {
	case hasEventWindow:
		return models.TypeEvent
	case boardID != "" && resolvedBoardName != "" && resolvedBoardName == noticeBoardName:
		return models.TypeNotice
	default:
		return models.TypeRegular
	}
}

type articleConstructor func(models.NewArticleParams) (*models.Article, error)

var articleConstructors = map[models.ArticleType]articleConstructor{
	models.TypeRegular: models.NewRegularArticle,
	models.TypeNotice:  models.NewNoticeArticle,
	models.TypeEvent:   models.NewEventArticle,
}

func constructArticle(t models.ArticleType, p models.NewArticleParams) (*models.Article, error) {
	ctor, ok := articleConstructors[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown article type %q", models.ErrValidation, t)
	}
	return ctor(p)
}

// fixedBoardName is the board a variant is pinned to, or "" when the
// caller's board is used.
func (s *articleService) fixedBoardName(t models.ArticleType) string {
	switch t {
	case models.TypeEvent:
		return s.eventBoardName
	case models.TypeNotice:
		return s.noticeBoardName
	}
	return ""
}
