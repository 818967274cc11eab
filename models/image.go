package models

import "time"

// Image belongs to exactly one article. Sequence is assigned once on append
// and never renumbered.
type Image struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	ArticleID string    `json:"article_id" gorm:"not null;type:varchar(64);uniqueIndex:idx_article_images_seq"`
	Sequence  int       `json:"sequence" gorm:"not null;uniqueIndex:idx_article_images_seq"`
	ImageID   string    `json:"image_id" gorm:"not null;type:varchar(64)"`
	ImageURL  string    `json:"image_url" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Image) TableName() string {
	return "article_images"
}
