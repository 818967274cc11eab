package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock makes nowFunc advance one second per call.
func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	prev := nowFunc
	nowFunc = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { nowFunc = prev })
}

func newTestArticle(t *testing.T) *Article {
	t.Helper()
	a, err := NewRegularArticle(NewArticleParams{ID: "a1", Title: "t", Content: "c", WriterID: "u1", BoardID: "b1"})
	require.NoError(t, err)
	return a
}

func TestNewRegularArticle_StartsActive(t *testing.T) {
	a := newTestArticle(t)

	assert.Equal(t, TypeRegular, a.Type)
	assert.Equal(t, StatusActive, a.Status)
	assert.Equal(t, int64(0), a.ViewCount)
	assert.Nil(t, a.CoverImageURL)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
	assert.NoError(t, a.Readable())
}

func TestNewEventArticle_RequiresValidWindow(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewEventArticle(NewArticleParams{ID: "e1"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewEventArticle(NewArticleParams{ID: "e1", EventWindow: &EventWindow{StartAt: start, EndAt: start.Add(-time.Hour)}})
	assert.True(t, errors.Is(err, ErrValidation))

	a, err := NewEventArticle(NewArticleParams{ID: "e1", EventWindow: &EventWindow{StartAt: start, EndAt: start.Add(time.Hour)}})
	require.NoError(t, err)
	w, err := a.EventWindow()
	require.NoError(t, err)
	assert.Equal(t, start, w.StartAt)
	assert.Equal(t, start.Add(time.Hour), w.EndAt)
}

func TestArticle_EventWindowOnOtherVariants(t *testing.T) {
	a := newTestArticle(t)

	_, err := a.EventWindow()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	changed, err := a.UpdateEventWindow(EventWindow{StartAt: time.Now(), EndAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.False(t, changed)
	assert.Nil(t, a.EventStartAt)
}

func TestArticle_UpdateEventWindow(t *testing.T) {
	fixedClock(t)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewEventArticle(NewArticleParams{ID: "e1", EventWindow: &EventWindow{StartAt: start, EndAt: start.Add(time.Hour)}})
	require.NoError(t, err)
	before := a.UpdatedAt

	changed, err := a.UpdateEventWindow(EventWindow{StartAt: start, EndAt: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, a.UpdatedAt)

	changed, err = a.UpdateEventWindow(EventWindow{StartAt: start, EndAt: start.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, a.UpdatedAt.After(before))
}

func TestArticle_StatusTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  ArticleStatus
		apply func(*Article)
		want  ArticleStatus
	}{
		{"activate from active", StatusActive, (*Article).Activate, StatusActive},
		{"activate from blocked", StatusBlocked, (*Article).Activate, StatusActive},
		{"activate from deleted", StatusDeleted, (*Article).Activate, StatusActive},
		{"block from active", StatusActive, (*Article).Block, StatusBlocked},
		{"block from deleted", StatusDeleted, (*Article).Block, StatusBlocked},
		{"delete from active", StatusActive, (*Article).Delete, StatusDeleted},
		{"delete from blocked", StatusBlocked, (*Article).Delete, StatusDeleted},
		{"delete from deleted", StatusDeleted, (*Article).Delete, StatusDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArticle(t)
			a.Status = tt.from
			tt.apply(a)
			assert.Equal(t, tt.want, a.Status)
		})
	}
}

func TestArticle_Readable(t *testing.T) {
	a := newTestArticle(t)

	a.Block()
	assert.ErrorIs(t, a.Readable(), ErrBlocked)

	a.Delete()
	assert.ErrorIs(t, a.Readable(), ErrNotFound)
	assert.True(t, a.IsDeleted())

	a.Activate()
	assert.NoError(t, a.Readable())
}

func TestArticle_SameStatusDoesNotTouch(t *testing.T) {
	fixedClock(t)
	a := newTestArticle(t)
	before := a.UpdatedAt

	a.Activate()
	assert.Equal(t, before, a.UpdatedAt)

	a.Block()
	assert.True(t, a.UpdatedAt.After(before))
}

func TestArticle_UpdateContentIgnoresBlank(t *testing.T) {
	fixedClock(t)
	a := newTestArticle(t)
	before := a.UpdatedAt

	assert.False(t, a.UpdateContent("", "   "))
	assert.False(t, a.UpdateContent("t", "c"))
	assert.Equal(t, before, a.UpdatedAt)

	assert.True(t, a.UpdateContent("new title", ""))
	assert.Equal(t, "new title", a.Title)
	assert.Equal(t, "c", a.Content)
	assert.True(t, a.UpdatedAt.After(before))
}

func TestArticle_IncrementViewCount(t *testing.T) {
	a := newTestArticle(t)
	before := a.UpdatedAt

	a.IncrementViewCount()
	a.IncrementViewCount()
	assert.Equal(t, int64(2), a.ViewCount)
	assert.Equal(t, before, a.UpdatedAt)

	a.ViewCount = -5
	a.IncrementViewCount()
	assert.Equal(t, int64(1), a.ViewCount)
}

func TestArticle_IsWrittenBy(t *testing.T) {
	a := newTestArticle(t)

	assert.True(t, a.IsWrittenBy("u1"))
	assert.False(t, a.IsWrittenBy("u2"))
	assert.False(t, a.IsWrittenBy(""))
}

func TestArticle_CoverFollowsImages(t *testing.T) {
	a := newTestArticle(t)

	first := a.AddImage("id1", "url1")
	require.NotNil(t, first)
	a.AddImage("id2", "url2")
	require.NotNil(t, a.CoverImageURL)
	assert.Equal(t, "url1", *a.CoverImageURL)

	assert.True(t, a.RemoveImage(a.FindImage("id1")))
	require.NotNil(t, a.CoverImageURL)
	assert.Equal(t, "url2", *a.CoverImageURL)

	assert.True(t, a.RemoveImage(a.FindImage("id2")))
	assert.Nil(t, a.CoverImageURL)
	assert.Empty(t, a.Images)
}

func TestArticle_ImageSequenceNeverReused(t *testing.T) {
	a := newTestArticle(t)

	a.AddImage("id1", "url1")
	a.AddImage("id2", "url2")
	a.RemoveImage(a.FindImage("id2"))
	third := a.AddImage("id3", "url3")

	require.NotNil(t, third)
	assert.Equal(t, 3, third.Sequence)
	assert.Equal(t, "url1", *a.CoverImageURL)
}

func TestArticle_RemovalsOnAbsentInputAreNoOps(t *testing.T) {
	fixedClock(t)
	a := newTestArticle(t)
	a.AddImage("id1", "url1")
	before := a.UpdatedAt

	assert.False(t, a.RemoveImage(nil))
	assert.False(t, a.RemoveImage(&Image{ImageID: "missing", Sequence: 99}))
	assert.False(t, a.RemoveKeyword(nil))
	assert.False(t, a.RemoveKeyword(&Keyword{ID: "missing"}))
	assert.Nil(t, a.AddImage("", "url"))

	assert.Len(t, a.Images, 1)
	assert.Equal(t, before, a.UpdatedAt)
	assert.Empty(t, a.KeywordChanges())

	assert.True(t, a.RemoveImages())
	assert.False(t, a.RemoveImages())
	assert.Nil(t, a.CoverImageURL)
}

func TestArticle_AddKeywordIsIdempotent(t *testing.T) {
	a := newTestArticle(t)
	k := &Keyword{ID: "k1", UsageCount: 4}

	assert.True(t, a.AddKeyword(k))
	assert.False(t, a.AddKeyword(k))
	assert.False(t, a.AddKeyword(&Keyword{ID: "k1"}))

	assert.Equal(t, 5, k.UsageCount)
	assert.Equal(t, []string{"k1"}, a.KeywordIDs())
	assert.Equal(t, []KeywordChange{{KeywordID: "k1", Added: true}}, a.KeywordChanges())
}

func TestArticle_RemoveKeywordFloorsAtZero(t *testing.T) {
	a := newTestArticle(t)
	k := &Keyword{ID: "k1"}
	a.AddKeyword(k)
	k.UsageCount = 0

	assert.True(t, a.RemoveKeyword(k))
	assert.Equal(t, 0, k.UsageCount)
	assert.False(t, a.HasKeyword("k1"))
}

func TestArticle_ReplaceKeywordsJournalsBothPasses(t *testing.T) {
	a := newTestArticle(t)
	ka := &Keyword{ID: "ka"}
	kb := &Keyword{ID: "kb"}
	kc := &Keyword{ID: "kc"}
	a.AddKeyword(ka)
	a.AddKeyword(kb)
	a.ClearPendingChanges()

	a.ReplaceKeywords([]*Keyword{kb, kc})

	assert.Equal(t, []string{"kb", "kc"}, a.KeywordIDs())
	assert.Equal(t, []KeywordChange{
		{KeywordID: "ka", Added: false},
		{KeywordID: "kb", Added: false},
		{KeywordID: "kb", Added: true},
		{KeywordID: "kc", Added: true},
	}, a.KeywordChanges())
	assert.Equal(t, 0, ka.UsageCount)
	assert.Equal(t, 1, kb.UsageCount)
	assert.Equal(t, 1, kc.UsageCount)
}

func TestArticle_ReplaceKeywordsKeepsMappedInstance(t *testing.T) {
	a := newTestArticle(t)
	a.AddKeyword(&Keyword{ID: "ka"})
	a.ClearPendingChanges()

	// A second copy of the same row, as a fresh lookup would return it.
	reloaded := &Keyword{ID: "ka", UsageCount: 1}
	a.ReplaceKeywords([]*Keyword{reloaded})

	assert.Equal(t, []string{"ka"}, a.KeywordIDs())
	assert.Equal(t, 1, a.KeywordMappings[0].Keyword.UsageCount)
	assert.Equal(t, 1, reloaded.UsageCount)
	assert.Equal(t, []KeywordChange{
		{KeywordID: "ka", Added: false},
		{KeywordID: "ka", Added: true},
	}, a.KeywordChanges())
}

func TestParseArticleStatus(t *testing.T) {
	s, ok := ParseArticleStatus(" blocked ")
	assert.True(t, ok)
	assert.Equal(t, StatusBlocked, s)

	_, ok = ParseArticleStatus("archived")
	assert.False(t, ok)
}
