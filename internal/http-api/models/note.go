package models

import "time"

// Note is a page-anchored annotation. Pinned notes carry the x/y
// position they were dropped at in the reader.
type Note struct {
	ID              int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string   `json:"user_id" gorm:"type:uuid;not null;index:idx_note_page"`
	BookID          int64    `json:"book_id" gorm:"not null;index:idx_note_page"`
	PageNo          int      `json:"page_no" gorm:"not null;index:idx_note_page"`
	Content         string   `json:"content" gorm:"not null;type:text"`
	HighlightedText *string  `json:"highlighted_text,omitempty" gorm:"type:text"`
	Pinned          bool     `json:"pinned" gorm:"default:false"`
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Note) TableName() string {
	return "notes"
}
