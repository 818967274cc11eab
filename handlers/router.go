package handlers

import (
	"net/http"

	"board-cms/logger"
	"board-cms/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Article *ArticleHandler
	Board   *BoardHandler
	Keyword *KeywordHandler
}

func NewRouter(h Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		boards := v1.Group("/boards")
		{
			boards.POST("", h.Board.CreateBoard)
			boards.GET("", h.Board.GetBoards)
			boards.GET("/:id", h.Board.GetBoard)
		}

		keywords := v1.Group("/keywords")
		{
			keywords.POST("", h.Keyword.CreateKeyword)
			keywords.GET("", h.Keyword.GetKeywords)
			keywords.GET("/:id", h.Keyword.GetKeyword)
		}

		articles := v1.Group("/articles")
		{
			articles.POST("", h.Article.CreateArticle)
			articles.GET("", h.Article.SearchArticles)
			articles.GET("/:id", h.Article.GetArticle)
			articles.PUT("/:id", h.Article.UpdateArticle)
			articles.DELETE("/:id", h.Article.DeleteArticle)

			articles.POST("/:id/activate", h.Article.ActivateArticle)
			articles.POST("/:id/block", h.Article.BlockArticle)
			articles.POST("/:id/views", h.Article.IncrementViewCount)

			articles.POST("/:id/images", h.Article.AddImage)
			articles.DELETE("/:id/images", h.Article.RemoveImages)
			articles.DELETE("/:id/images/:image_id", h.Article.RemoveImage)

			articles.PUT("/:id/keywords", h.Article.ReplaceKeywords)
			articles.POST("/:id/keywords/:keyword_id", h.Article.AddKeyword)
			articles.DELETE("/:id/keywords/:keyword_id", h.Article.RemoveKeyword)
		}
	}

	return router
}
