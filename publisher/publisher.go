package publisher

import (
	"context"
	"time"

	"board-cms/models"
)

type EventType string

const (
	ArticleCreated EventType = "article.created"
	ArticleUpdated EventType = "article.updated"
	ArticleDeleted EventType = "article.deleted"
)

// ArticleEvent carries a snapshot of the article as committed.
type ArticleEvent struct {
	Type       EventType      `json:"type"`
	ArticleID  string         `json:"article_id"`
	Article    models.Article `json:"article"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewArticleEvent(t EventType, article models.Article) ArticleEvent {
	return ArticleEvent{
		Type:       t,
		ArticleID:  article.ID,
		Article:    article,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event ArticleEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ArticleEvent) error { return nil }
