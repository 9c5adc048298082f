package models

import "time"

// ReadingProgress is the single progress record per (user, book).
type ReadingProgress struct {
	UserID    string    `gorm:"type:uuid;not null;primaryKey;index:idx_user_book" json:"user_id"`
	BookID    int64     `gorm:"not null;primaryKey;index:idx_user_book" json:"book_id"`
	PageNo    int       `gorm:"default:1" json:"page_no"`
	Percent   float64   `gorm:"type:decimal(5,2);default:0" json:"percent"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName overrides the table name used by ReadingProgress to `progress`
func (ReadingProgress) TableName() string {
	return "progress"
}
