package models

import (
	"time"

	"gorm.io/gorm"
)

// Keyword is either global (BoardID nil) or scoped to one board. Names are
// unique per scope; BoardScope mirrors BoardID so the global scope can take
// part in the unique index.
type Keyword struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name       string    `json:"name" gorm:"not null;type:varchar(100);uniqueIndex:idx_keywords_scope_name"`
	BoardID    *string   `json:"board_id" gorm:"type:varchar(64);index"`
	BoardScope string    `json:"-" gorm:"not null;default:'';type:varchar(64);uniqueIndex:idx_keywords_scope_name"`
	UsageCount int       `json:"usage_count" gorm:"not null;default:0"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (k *Keyword) BeforeSave(tx *gorm.DB) error {
	k.BoardScope = ""
	if k.BoardID != nil {
		k.BoardScope = *k.BoardID
	}
	return nil
}

// KeywordMapping joins an article to a keyword. Keyword is only populated when
// the repository preloads it for a write.
type KeywordMapping struct {
	ArticleID string    `json:"article_id" gorm:"primaryKey;type:varchar(64)"`
	KeywordID string    `json:"keyword_id" gorm:"primaryKey;type:varchar(64);index"`
	Keyword   *Keyword  `json:"keyword,omitempty" gorm:"foreignKey:KeywordID;references:ID"`
	CreatedAt time.Time `json:"created_at"`
}
