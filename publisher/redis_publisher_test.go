package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"board-cms/models"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_PublishesSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pub, err := NewRedisPublisher(mr.Addr(), "events-test")
	require.NoError(t, err)
	defer pub.Close()

	// Subscribe with a plain client so we observe exactly what went on the wire
	sub := goredis.NewClient(&goredis.Options{Addr: mr.Addr()}).Subscribe(context.Background(), "events-test")
	defer sub.Close()
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	article := models.Article{ID: "a-1", Title: "hello", Status: models.StatusActive}
	require.NoError(t, pub.Publish(context.Background(), NewArticleEvent(ArticleCreated, article)))

	select {
	case msg := <-sub.Channel():
		var got ArticleEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, ArticleCreated, got.Type)
		assert.Equal(t, "a-1", got.ArticleID)
		assert.Equal(t, "hello", got.Article.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisPublisher_RejectsEmptyAddress(t *testing.T) {
	_, err := NewRedisPublisher("", "")
	assert.Error(t, err)
}

func TestRedisPublisher_FailsAfterServerGone(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	pub, err := NewRedisPublisher(mr.Addr(), "")
	require.NoError(t, err)
	defer pub.Close()

	mr.Close()
	err = pub.Publish(context.Background(), NewArticleEvent(ArticleDeleted, models.Article{ID: "x"}))
	assert.Error(t, err)
}
