package models

import (
	"fmt"
	"strings"
	"time"
)

type ArticleType string

const (
	TypeRegular ArticleType = "REGULAR"
	TypeEvent   ArticleType = "EVENT"
	TypeNotice  ArticleType = "NOTICE"
)

type ArticleStatus string

const (
	StatusActive  ArticleStatus = "ACTIVE"
	StatusBlocked ArticleStatus = "BLOCKED"
	StatusDeleted ArticleStatus = "DELETED"
)

// ParseArticleStatus accepts any casing; ok is false for unknown values.
func ParseArticleStatus(s string) (ArticleStatus, bool) {
	switch ArticleStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusBlocked:
		return StatusBlocked, true
	case StatusDeleted:
		return StatusDeleted, true
	}
	return "", false
}

// nowFunc is truncated to microseconds so timestamps survive a round trip
// through postgres unchanged, which keyset cursors depend on.
var nowFunc = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Article is a tagged union over Type. The event window columns are only
// meaningful for TypeEvent and are reached through EventWindow and
// UpdateEventWindow.
type Article struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(64);index:idx_articles_feed,priority:3"`
	Type          ArticleType   `json:"type" gorm:"not null;type:varchar(16)"`
	Title         string        `json:"title" gorm:"not null;type:varchar(255)"`
	Content       string        `json:"content" gorm:"type:text"`
	WriterID      string        `json:"writer_id" gorm:"not null;type:varchar(64);index"`
	BoardID       string        `json:"board_id" gorm:"not null;type:varchar(64);index"`
	Status        ArticleStatus `json:"status" gorm:"not null;type:varchar(16);index:idx_articles_feed,priority:1"`
	ViewCount     int64         `json:"view_count" gorm:"not null;default:0"`
	CoverImageURL *string       `json:"cover_image_url"`
	ImageSequence int           `json:"-" gorm:"not null;default:0"`
	EventStartAt  *time.Time    `json:"event_start_at,omitempty"`
	EventEndAt    *time.Time    `json:"event_end_at,omitempty"`
	Version       int           `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime:false;index:idx_articles_feed,priority:2"`

	Images          []Image          `json:"images,omitempty" gorm:"foreignKey:ArticleID"`
	KeywordMappings []KeywordMapping `json:"keyword_mappings,omitempty" gorm:"foreignKey:ArticleID"`

	usage KeywordUsageTracker
}

type EventWindow struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

func (w EventWindow) validate() error {
	if w.StartAt.IsZero() || w.EndAt.IsZero() {
		return fmt.Errorf("%w: event window needs both start and end", ErrValidation)
	}
	if w.EndAt.Before(w.StartAt) {
		return fmt.Errorf("%w: event end precedes start", ErrValidation)
	}
	return nil
}

type NewArticleParams struct {
	ID          string
	Title       string
	Content     string
	WriterID    string
	BoardID     string
	EventWindow *EventWindow
}

func newArticle(t ArticleType, p NewArticleParams) *Article {
	now := nowFunc()
	return &Article{
		ID:        p.ID,
		Type:      t,
		Title:     p.Title,
		Content:   p.Content,
		WriterID:  p.WriterID,
		BoardID:   p.BoardID,
		Status:    StatusActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewRegularArticle(p NewArticleParams) (*Article, error) {
	return newArticle(TypeRegular, p), nil
}

func NewNoticeArticle(p NewArticleParams) (*Article, error) {
	return newArticle(TypeNotice, p), nil
}

func NewEventArticle(p NewArticleParams) (*Article, error) {
	if p.EventWindow == nil {
		return nil, fmt.Errorf("%w: event article needs an event window", ErrValidation)
	}
	if err := p.EventWindow.validate(); err != nil {
		return nil, err
	}
	a := newArticle(TypeEvent, p)
	start, end := p.EventWindow.StartAt.UTC(), p.EventWindow.EndAt.UTC()
	a.EventStartAt, a.EventEndAt = &start, &end
	return a, nil
}

func (a *Article) touch() {
	a.UpdatedAt = nowFunc()
}

// Readable reports whether a normal reader may see the article.
func (a *Article) Readable() error {
	switch a.Status {
	case StatusDeleted:
		return ErrNotFound
	case StatusBlocked:
		return ErrBlocked
	}
	return nil
}

func (a *Article) IsDeleted() bool { return a.Status == StatusDeleted }

func (a *Article) Activate() {
	a.setStatus(StatusActive)
}

// Block and Delete are accepted from every state; see DESIGN.md.
func (a *Article) Block() {
	a.setStatus(StatusBlocked)
}

func (a *Article) Delete() {
	a.setStatus(StatusDeleted)
}

func (a *Article) setStatus(s ArticleStatus) {
	if a.Status == s {
		return
	}
	a.Status = s
	a.touch()
}

// UpdateContent ignores blank arguments. It reports whether anything changed.
func (a *Article) UpdateContent(title, content string) bool {
	changed := false
	if strings.TrimSpace(title) != "" && title != a.Title {
		a.Title = title
		changed = true
	}
	if strings.TrimSpace(content) != "" && content != a.Content {
		a.Content = content
		changed = true
	}
	if changed {
		a.touch()
	}
	return changed
}

func (a *Article) IncrementViewCount() {
	if a.ViewCount < 0 {
		a.ViewCount = 0
	}
	a.ViewCount++
}

func (a *Article) IsWrittenBy(writerID string) bool {
	if writerID == "" {
		return false
	}
	return a.WriterID == writerID
}

func (a *Article) EventWindow() (EventWindow, error) {
	if a.Type != TypeEvent {
		return EventWindow{}, ErrTypeMismatch
	}
	var w EventWindow
	if a.EventStartAt != nil {
		w.StartAt = *a.EventStartAt
	}
	if a.EventEndAt != nil {
		w.EndAt = *a.EventEndAt
	}
	return w, nil
}

// UpdateEventWindow reports whether the window changed.
func (a *Article) UpdateEventWindow(w EventWindow) (bool, error) {
	if a.Type != TypeEvent {
		return false, ErrTypeMismatch
	}
	if err := w.validate(); err != nil {
		return false, err
	}
	start, end := w.StartAt.UTC(), w.EndAt.UTC()
	if a.EventStartAt != nil && a.EventEndAt != nil &&
		a.EventStartAt.Equal(start) && a.EventEndAt.Equal(end) {
		return false, nil
	}
	a.EventStartAt, a.EventEndAt = &start, &end
	a.touch()
	return true, nil
}

// AddImage appends with the next sequence number. Blank arguments are ignored
// and nil is returned.
func (a *Article) AddImage(imageID, imageURL string) *Image {
	if imageID == "" || imageURL == "" {
		return nil
	}
	for _, img := range a.Images {
		if img.Sequence > a.ImageSequence {
			a.ImageSequence = img.Sequence
		}
	}
	a.ImageSequence++
	a.Images = append(a.Images, Image{
		ArticleID: a.ID,
		Sequence:  a.ImageSequence,
		ImageID:   imageID,
		ImageURL:  imageURL,
		CreatedAt: nowFunc(),
	})
	a.refreshCover()
	a.touch()
	img := a.Images[len(a.Images)-1]
	return &img
}

func (a *Article) FindImage(imageID string) *Image {
	for _, img := range a.Images {
		if img.ImageID == imageID {
			found := img
			return &found
		}
	}
	return nil
}

func (a *Article) RemoveImage(img *Image) bool {
	if img == nil {
		return false
	}
	for i := range a.Images {
		if a.Images[i].Sequence == img.Sequence && a.Images[i].ImageID == img.ImageID {
			a.Images = append(a.Images[:i], a.Images[i+1:]...)
			a.refreshCover()
			a.touch()
			return true
		}
	}
	return false
}

func (a *Article) RemoveImages() bool {
	if len(a.Images) == 0 && a.CoverImageURL == nil {
		return false
	}
	a.Images = nil
	a.refreshCover()
	a.touch()
	return true
}

// refreshCover derives the cover from scratch: the lowest remaining sequence.
func (a *Article) refreshCover() {
	var cover *Image
	for i := range a.Images {
		if cover == nil || a.Images[i].Sequence < cover.Sequence {
			cover = &a.Images[i]
		}
	}
	if cover == nil {
		a.CoverImageURL = nil
		return
	}
	url := cover.ImageURL
	a.CoverImageURL = &url
}

func (a *Article) HasKeyword(keywordID string) bool {
	return a.keywordIndex(keywordID) >= 0
}

func (a *Article) KeywordIDs() []string {
	ids := make([]string, 0, len(a.KeywordMappings))
	for _, m := range a.KeywordMappings {
		ids = append(ids, m.KeywordID)
	}
	return ids
}

func (a *Article) keywordIndex(keywordID string) int {
	for i, m := range a.KeywordMappings {
		if m.KeywordID == keywordID {
			return i
		}
	}
	return -1
}

// AddKeyword maps k once; repeated calls for the same keyword are no-ops.
func (a *Article) AddKeyword(k *Keyword) bool {
	if k == nil || k.ID == "" || a.HasKeyword(k.ID) {
		return false
	}
	a.KeywordMappings = append(a.KeywordMappings, KeywordMapping{
		ArticleID: a.ID,
		KeywordID: k.ID,
		Keyword:   k,
		CreatedAt: nowFunc(),
	})
	a.usage.Added(k)
	a.touch()
	return true
}

func (a *Article) RemoveKeyword(k *Keyword) bool {
	if k == nil {
		return false
	}
	i := a.keywordIndex(k.ID)
	if i < 0 {
		return false
	}
	a.KeywordMappings = append(a.KeywordMappings[:i], a.KeywordMappings[i+1:]...)
	a.usage.Removed(k.ID, k)
	a.touch()
	return true
}

// ReplaceKeywords removes every current mapping and then adds every member of
// next. A keyword in both sets is decremented and incremented back on the
// instance already mapped, so its counter ends where it started.
func (a *Article) ReplaceKeywords(next []*Keyword) {
	current := a.KeywordMappings
	loaded := make(map[string]*Keyword, len(current))
	a.KeywordMappings = nil
	for _, m := range current {
		a.usage.Removed(m.KeywordID, m.Keyword)
		if m.Keyword != nil {
			loaded[m.KeywordID] = m.Keyword
		}
	}
	if len(current) > 0 {
		a.touch()
	}
	for _, k := range next {
		if k != nil {
			if mapped, ok := loaded[k.ID]; ok {
				k = mapped
			}
		}
		a.AddKeyword(k)
	}
}

// KeywordChanges returns membership edits not yet persisted, oldest first.
func (a *Article) KeywordChanges() []KeywordChange {
	return a.usage.Changes()
}

func (a *Article) ClearPendingChanges() {
	a.usage.Reset()
}
