package repository

import (
	"context"

	"bookmise/internal/http-api/models"

	"gorm.io/gorm"
)

// NoteFilters narrows note listings. Zero values mean "no filter".
type NoteFilters struct {
	BookID int64
	PageNo int
	Pinned *bool
	Search string
}

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, noteID int64, userID string) error
	GetByID(ctx context.Context, noteID int64, userID string) (*models.Note, error)
	GetByPage(ctx context.Context, userID string, bookID int64, pageNo int) ([]models.Note, error)
	GetByBook(ctx context.Context, userID string, bookID int64) ([]models.Note, error)
	Find(ctx context.Context, userID string, filters NoteFilters) ([]models.Note, error)
	DeleteByBook(ctx context.Context, bookID int64) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

// Delete removes a note only if the user owns it
func (r *noteRepository) Delete(ctx context.Context, noteID int64, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&models.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID loads a note scoped to its owner; another user's note id
// behaves like a missing one.
func (r *noteRepository) GetByID(ctx context.Context, noteID int64, userID string) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).
		First(&note, "id = ? AND user_id = ?", noteID, userID).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// GetByPage returns the notes anchored to one page, oldest first.
func (r *noteRepository) GetByPage(ctx context.Context, userID string, bookID int64, pageNo int) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND page_no = ?", userID, bookID, pageNo).
		Order("created_at").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// GetByBook returns every note in a book ordered (page_no, created_at),
// the order the book-level notes view groups by.
func (r *noteRepository) GetByBook(ctx context.Context, userID string, bookID int64) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("page_no, created_at").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Find(ctx context.Context, userID string, filters NoteFilters) ([]models.Note, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filters.BookID != 0 {
		query = query.Where("book_id = ?", filters.BookID)
	}
	if filters.PageNo != 0 {
		query = query.Where("page_no = ?", filters.PageNo)
	}
	if filters.Pinned != nil {
		query = query.Where("pinned = ?", *filters.Pinned)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("content ILIKE ? OR highlighted_text ILIKE ?", pattern, pattern)
	}

	var notes []models.Note
	if err := query.Order("page_no, created_at").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) DeleteByBook(ctx context.Context, bookID int64) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&models.Note{}).Error
}
