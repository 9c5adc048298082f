package models

import "time"

// Book is a user-owned library entry. PDFURL and ObjectKey are nil for
// offline/manual entries that only exist as metadata.
type Book struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     string  `json:"user_id" gorm:"type:uuid;not null;index"`
	Title      string  `json:"title" gorm:"not null"`
	Author     *string `json:"author,omitempty"`
	TotalPages int     `json:"total_pages" gorm:"not null"`
	PDFURL     *string `json:"pdf_url,omitempty"`
	ObjectKey  *string `json:"-" gorm:"uniqueIndex"`
	ThumbData  *string `json:"thumb_data,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}
