package models

import (
	"time"
)

// Post represents a forum post. CreatedAt is the feed sort key; id breaks
// ties between posts created in the same millisecond.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Text      string    `gorm:"type:text;not null;column:text" json:"text"`
	Points    int64     `gorm:"not null;default:0;column:points" json:"points"`
	CreatorID int64     `gorm:"not null;index:posts_creator_idx;column:creator_id" json:"creatorId"`
	CreatedAt time.Time `gorm:"not null;index:posts_created_at_idx;column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`

	// Relationships
	Creator *User `gorm:"foreignKey:CreatorID;references:ID" json:"-"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
