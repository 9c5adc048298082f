package models

import "time"

type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	BookID    *int64    `json:"book_id,omitempty" gorm:"index"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	LikeCount int       `json:"like_count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

func (Post) TableName() string {
	return "posts"
}

// PostLike records one like per (user, post).
type PostLike struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;primaryKey"`
	PostID    int64     `json:"post_id" gorm:"not null;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PostLike) TableName() string {
	return "likes"
}
