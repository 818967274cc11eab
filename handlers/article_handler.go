package handlers

import (
	"board-cms/helper"
	"board-cms/models"
	"board-cms/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	readService    services.ArticleReadService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, readService services.ArticleReadService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		readService:    readService,
		Helper:         h,
	}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created successfully", article)
}

func (h *ArticleHandler) SearchArticles(c *gin.Context) {
	var params models.ArticleSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query: "+err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	cursorUpdatedAt, err := params.CursorTime()
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	page, err := h.readService.SearchArticles(c.Request.Context(), params.Criteria(), services.PageRequest{
		Size:            params.Size,
		CursorID:        params.CursorID,
		CursorUpdatedAt: cursorUpdatedAt,
	})
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"articles":   page.Items,
		"pagination": h.Helper.GenerateCursorPaging(c, page),
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.readService.FetchArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req models.UpdateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), c.Param("id"), req)
	h.respond(c, "Article updated successfully", article, err)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	if err := h.articleService.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *ArticleHandler) ActivateArticle(c *gin.Context) {
	article, err := h.articleService.ActivateArticle(c.Request.Context(), c.Param("id"))
	h.respond(c, "Article activated", article, err)
}

func (h *ArticleHandler) BlockArticle(c *gin.Context) {
	article, err := h.articleService.BlockArticle(c.Request.Context(), c.Param("id"))
	h.respond(c, "Article blocked", article, err)
}

func (h *ArticleHandler) IncrementViewCount(c *gin.Context) {
	article, err := h.articleService.IncrementViewCount(c.Request.Context(), c.Param("id"))
	h.respond(c, "Success", article, err)
}

func (h *ArticleHandler) AddImage(c *gin.Context) {
	var req models.AddImageRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.AddImage(c.Request.Context(), c.Param("id"), req)
	h.respond(c, "Image added", article, err)
}

func (h *ArticleHandler) RemoveImage(c *gin.Context) {
	article, err := h.articleService.RemoveImage(c.Request.Context(), c.Param("id"), c.Param("image_id"))
	h.respond(c, "Image removed", article, err)
}

func (h *ArticleHandler) RemoveImages(c *gin.Context) {
	article, err := h.articleService.RemoveImages(c.Request.Context(), c.Param("id"))
	h.respond(c, "Images removed", article, err)
}

func (h *ArticleHandler) AddKeyword(c *gin.Context) {
	article, err := h.articleService.AddKeyword(c.Request.Context(), c.Param("id"), c.Param("keyword_id"))
	h.respond(c, "Keyword added", article, err)
}

func (h *ArticleHandler) RemoveKeyword(c *gin.Context) {
	article, err := h.articleService.RemoveKeyword(c.Request.Context(), c.Param("id"), c.Param("keyword_id"))
	h.respond(c, "Keyword removed", article, err)
}

func (h *ArticleHandler) ReplaceKeywords(c *gin.Context) {
	var req models.ReplaceKeywordsRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.ReplaceKeywords(c.Request.Context(), c.Param("id"), req.KeywordIDs)
	h.respond(c, "Keywords replaced", article, err)
}

func (h *ArticleHandler) respond(c *gin.Context, message string, article *models.Article, err error) {
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, message, article)
}
