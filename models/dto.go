package models

import (
	"fmt"
	"strings"
	"time"
)

type CreateBoardRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
}

type CreateKeywordRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=100"`
	BoardID *string `json:"board_id" validate:"omitempty,max=64"`
}

type ImageRequest struct {
	ImageID  string `json:"image_id" validate:"required,max=64"`
	ImageURL string `json:"image_url" validate:"required,url"`
}

type CreateArticleRequest struct {
	Title        string         `json:"title" validate:"required,min=1,max=255"`
	Content      string         `json:"content" validate:"required"`
	WriterID     string         `json:"writer_id" validate:"required,max=64"`
	BoardID      string         `json:"board_id" validate:"max=64"`
	KeywordIDs   []string       `json:"keyword_ids" validate:"dive,required"`
	Images       []ImageRequest `json:"images" validate:"dive"`
	EventStartAt *time.Time     `json:"event_start_at"`
	EventEndAt   *time.Time     `json:"event_end_at"`
}

// EventWindow is nil when neither bound was sent.
func (r CreateArticleRequest) EventWindow() *EventWindow {
	return eventWindowOf(r.EventStartAt, r.EventEndAt)
}

type UpdateArticleRequest struct {
	Title        string     `json:"title" validate:"max=255"`
	Content      string     `json:"content"`
	KeywordIDs   *[]string  `json:"keyword_ids"`
	EventStartAt *time.Time `json:"event_start_at"`
	EventEndAt   *time.Time `json:"event_end_at"`
}

func (r UpdateArticleRequest) EventWindow() *EventWindow {
	return eventWindowOf(r.EventStartAt, r.EventEndAt)
}

func eventWindowOf(start, end *time.Time) *EventWindow {
	if start == nil && end == nil {
		return nil
	}
	var w EventWindow
	if start != nil {
		w.StartAt = *start
	}
	if end != nil {
		w.EndAt = *end
	}
	return &w
}

type AddImageRequest = ImageRequest

type ReplaceKeywordsRequest struct {
	KeywordIDs []string `json:"keyword_ids" validate:"dive,required"`
}

type ArticleSearchParams struct {
	BoardID         string   `form:"board_id"`
	KeywordIDs      []string `form:"keyword_ids"`
	Title           string   `form:"title"`
	Content         string   `form:"content"`
	WriterIDs       []string `form:"writer_ids"`
	Status          string   `form:"status"`
	Size            int      `form:"size"`
	CursorID        string   `form:"cursor_id"`
	CursorUpdatedAt string   `form:"cursor_updated_at"`
}

// Criteria accepts both repeated and comma separated list parameters.
func (p ArticleSearchParams) Criteria() SearchCriteria {
	c := SearchCriteria{
		KeywordIDs: splitList(p.KeywordIDs),
		Title:      p.Title,
		Content:    p.Content,
		WriterIDs:  splitList(p.WriterIDs),
		Status:     ArticleStatus(p.Status),
	}
	if p.BoardID != "" {
		board := p.BoardID
		c.BoardID = &board
	}
	return c.Normalize()
}

func (p ArticleSearchParams) CursorTime() (*time.Time, error) {
	if strings.TrimSpace(p.CursorUpdatedAt) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(p.CursorUpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("%w: cursor_updated_at: %v", ErrInvalidCursor, err)
	}
	t = t.UTC()
	return &t, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
