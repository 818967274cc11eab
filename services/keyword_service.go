package services

import (
	"context"
	"strings"

	"board-cms/dbctx"
	"board-cms/models"
	"board-cms/repositories"

	"github.com/google/uuid"
)

type KeywordService interface {
	CreateKeyword(ctx context.Context, req models.CreateKeywordRequest) (*models.Keyword, error)
	// GetKeywords lists all keywords, or those usable on boardID when set.
	GetKeywords(ctx context.Context, boardID *string) ([]models.Keyword, error)
	GetKeyword(ctx context.Context, id string) (*models.Keyword, error)
}

type keywordService struct {
	keywordRepo repositories.KeywordRepository
	boardRepo   repositories.BoardRepository
}

func NewKeywordService(keywordRepo repositories.KeywordRepository, boardRepo repositories.BoardRepository) KeywordService {
	return &keywordService{
		keywordRepo: keywordRepo,
		boardRepo:   boardRepo,
	}
}

// CreateKeyword relies on the (board scope, name) unique index for
// duplicates; they surface as models.ErrConflict.
func (s *keywordService) CreateKeyword(ctx context.Context, req models.CreateKeywordRequest) (*models.Keyword, error) {
	dbc := dbctx.Context{Ctx: ctx}

	keyword := &models.Keyword{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		IsActive: true,
	}
	if req.BoardID != nil && strings.TrimSpace(*req.BoardID) != "" {
		board, err := s.boardRepo.GetByID(dbc, strings.TrimSpace(*req.BoardID))
		if err != nil {
			return nil, err
		}
		keyword.BoardID = &board.ID
	}

	if err := s.keywordRepo.Create(dbc, keyword); err != nil {
		return nil, err
	}
	return keyword, nil
}

func (s *keywordService) GetKeywords(ctx context.Context, boardID *string) ([]models.Keyword, error) {
	return s.keywordRepo.GetAll(dbctx.Context{Ctx: ctx}, boardID)
}

func (s *keywordService) GetKeyword(ctx context.Context, id string) (*models.Keyword, error) {
	return s.keywordRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
}
