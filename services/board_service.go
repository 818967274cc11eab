package services

import (
	"context"
	"errors"
	"fmt"

	"board-cms/dbctx"
	"board-cms/models"
	"board-cms/repositories"

	"github.com/google/uuid"
)

type BoardService interface {
	CreateBoard(ctx context.Context, req models.CreateBoardRequest) (*models.Board, error)
	GetBoards(ctx context.Context) ([]models.Board, error)
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	// EnsureBoard returns the board with this name, creating it if missing.
	EnsureBoard(ctx context.Context, name string) (*models.Board, error)
}

type boardService struct {
	boardRepo repositories.BoardRepository
}

func NewBoardService(boardRepo repositories.BoardRepository) BoardService {
	return &boardService{boardRepo: boardRepo}
}

func (s *boardService) CreateBoard(ctx context.Context, req models.CreateBoardRequest) (*models.Board, error) {
	dbc := dbctx.Context{Ctx: ctx}

	// Check if board already exists
	_, err := s.boardRepo.GetByName(dbc, req.Name)
	if err == nil {
		return nil, fmt.Errorf("%w: board %q already exists", models.ErrConflict, req.Name)
	}
	if !errors.Is(err, models.ErrBoardNotFound) {
		return nil, err
	}

	board := &models.Board{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.IsActive != nil {
		board.IsActive = *req.IsActive
	}

	if err := s.boardRepo.Create(dbc, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *boardService) GetBoards(ctx context.Context) ([]models.Board, error) {
	return s.boardRepo.GetAll(dbctx.Context{Ctx: ctx})
}

func (s *boardService) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	return s.boardRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *boardService) EnsureBoard(ctx context.Context, name string) (*models.Board, error) {
	board, err := s.boardRepo.GetByName(dbctx.Context{Ctx: ctx}, name)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, models.ErrBoardNotFound) {
		return nil, err
	}
	board, err = s.CreateBoard(ctx, models.CreateBoardRequest{Name: name})
	if errors.Is(err, models.ErrConflict) {
		// Lost a race with another creator.
		return s.boardRepo.GetByName(dbctx.Context{Ctx: ctx}, name)
	}
	return board, err
}
