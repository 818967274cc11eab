package models

import (
	"strings"
	"time"
)

// SearchCriteria filters articles. Every field is ANDed except the members of
// KeywordIDs and WriterIDs, which are ORed among themselves.
type SearchCriteria struct {
	BoardID    *string
	KeywordIDs []string
	Title      string
	Content    string
	WriterIDs  []string
	Status     ArticleStatus
}

// Normalize returns a copy with trimmed values, duplicates removed and an
// unknown or empty status replaced by ACTIVE.
func (c SearchCriteria) Normalize() SearchCriteria {
	out := SearchCriteria{
		Title:      strings.TrimSpace(c.Title),
		Content:    strings.TrimSpace(c.Content),
		KeywordIDs: uniqueNonBlank(c.KeywordIDs),
		WriterIDs:  uniqueNonBlank(c.WriterIDs),
		Status:     StatusActive,
	}
	if c.BoardID != nil {
		if id := strings.TrimSpace(*c.BoardID); id != "" {
			out.BoardID = &id
		}
	}
	if s, ok := ParseArticleStatus(string(c.Status)); ok {
		out.Status = s
	}
	return out
}

func uniqueNonBlank(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Cursor is an exclusive lower bound in (updated_at DESC, id DESC) order.
type Cursor struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Before reports whether a row at (updatedAt, id) sorts after the cursor in
// descending order, i.e. belongs to the next page.
func (c Cursor) Before(updatedAt time.Time, id string) bool {
	if updatedAt.Before(c.UpdatedAt) {
		return true
	}
	return updatedAt.Equal(c.UpdatedAt) && id < c.ID
}

type ArticlePage struct {
	Items               []Article  `json:"items"`
	// Size is the page size the query ran with, not len(Items).
	Size                int        `json:"size"`
	HasNext             bool       `json:"has_next"`
	NextCursorID        *string    `json:"next_cursor_id"`
	NextCursorUpdatedAt *time.Time `json:"next_cursor_updated_at"`
}
