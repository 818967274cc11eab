package handlers

import (
	"board-cms/helper"
	"board-cms/models"
	"board-cms/services"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardService services.BoardService
	Helper       *helper.HTTPHelper
}

func NewBoardHandler(boardService services.BoardService, h *helper.HTTPHelper) *BoardHandler {
	return &BoardHandler{boardService: boardService, Helper: h}
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req models.CreateBoardRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendCreated(c, "Board created successfully", board)
}

func (h *BoardHandler) GetBoards(c *gin.Context) {
	boards, err := h.boardService.GetBoards(c.Request.Context())
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", boards)
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, err := h.boardService.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", board)
}
