package repositories

import (
	"board-cms/dbctx"
	"board-cms/models"

	"gorm.io/gorm"
)

type BoardRepository interface {
	Create(dbc dbctx.Context, board *models.Board) error
	GetByID(dbc dbctx.Context, id string) (*models.Board, error)
	GetByName(dbc dbctx.Context, name string) (*models.Board, error)
	GetAll(dbc dbctx.Context) ([]models.Board, error)
}

type boardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) Create(dbc dbctx.Context, board *models.Board) error {
	return mapError(dbc.DB(r.db).Create(board).Error, models.ErrBoardNotFound)
}

func (r *boardRepository) GetByID(dbc dbctx.Context, id string) (*models.Board, error) {
	var board models.Board
	err := dbc.DB(r.db).Where("id = ?", id).Take(&board).Error
	if err != nil {
		return nil, mapError(err, models.ErrBoardNotFound)
	}
	return &board, nil
}

func (r *boardRepository) GetByName(dbc dbctx.Context, name string) (*models.Board, error) {
	var board models.Board
	err := dbc.DB(r.db).Where("name = ?", name).Take(&board).Error
	if err != nil {
		return nil, mapError(err, models.ErrBoardNotFound)
	}
	return &board, nil
}

func (r *boardRepository) GetAll(dbc dbctx.Context) ([]models.Board, error) {
	var boards []models.Board
	err := dbc.DB(r.db).Order("display_order asc").Order("name asc").Find(&boards).Error
	return boards, err
}
