package handlers

import (
	"board-cms/helper"
	"board-cms/models"
	"board-cms/services"

	"github.com/gin-gonic/gin"
)

type KeywordHandler struct {
	keywordService services.KeywordService
	Helper         *helper.HTTPHelper
}

func NewKeywordHandler(keywordService services.KeywordService, h *helper.HTTPHelper) *KeywordHandler {
	return &KeywordHandler{keywordService: keywordService, Helper: h}
}

func (h *KeywordHandler) CreateKeyword(c *gin.Context) {
	var req models.CreateKeywordRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	keyword, err := h.keywordService.CreateKeyword(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendCreated(c, "Keyword created successfully", keyword)
}

// GetKeywords accepts an optional board_id to list the keywords usable there.
func (h *KeywordHandler) GetKeywords(c *gin.Context) {
	var boardID *string
	if id, ok := c.GetQuery("board_id"); ok && id != "" {
		boardID = &id
	}

	keywords, err := h.keywordService.GetKeywords(c.Request.Context(), boardID)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", keywords)
}

func (h *KeywordHandler) GetKeyword(c *gin.Context) {
	keyword, err := h.keywordService.GetKeyword(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", keyword)
}
