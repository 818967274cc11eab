package services

import (
	"testing"
	"time"

	"board-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyArticleType(t *testing.T) {
	tests := []struct {
		name      string
		boardID   string
		boardName string
		event     bool
		want      models.ArticleType
	}{
		{"plain board", "b1", "general", false, models.TypeRegular},
		{"notice board", "b2", "notice", false, models.TypeNotice},
		{"event window wins over notice board", "b2", "notice", true, models.TypeEvent},
		{"event window without board", "", "", true, models.TypeEvent},
		{"unresolved board", "b9", "", false, models.TypeRegular},
		{"notice name without board id", "", "notice", false, models.TypeRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyArticleType(tt.boardID, tt.boardName, "notice", tt.event))
		})
	}
}

func TestConstructArticle(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := models.NewArticleParams{ID: "a1", Title: "t", WriterID: "u1", BoardID: "b1",
		EventWindow: &models.EventWindow{StartAt: start, EndAt: start.Add(time.Hour)}}

	for _, typ := range []models.ArticleType{models.TypeRegular, models.TypeNotice, models.TypeEvent} {
		a, err := constructArticle(typ, p)
		require.NoError(t, err)
		assert.Equal(t, typ, a.Type)
	}

	_, err := constructArticle("ARCHIVE", p)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestFixedBoardName(t *testing.T) {
	s := &articleService{noticeBoardName: "notice", eventBoardName: "event"}

	assert.Equal(t, "event", s.fixedBoardName(models.TypeEvent))
	assert.Equal(t, "notice", s.fixedBoardName(models.TypeNotice))
	assert.Equal(t, "", s.fixedBoardName(models.TypeRegular))
}
