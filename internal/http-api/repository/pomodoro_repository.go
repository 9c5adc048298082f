package repository

import (
	"context"

	"bookmise/internal/http-api/models"

	"gorm.io/gorm"
)

type PomodoroRepository interface {
	Create(ctx context.Context, session *models.PomodoroSession) error
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) ([]models.PomodoroSession, error)
}

type pomodoroRepository struct {
	db *gorm.DB
}

func NewPomodoroRepository(db *gorm.DB) PomodoroRepository {
	return &pomodoroRepository{db: db}
}

func (r *pomodoroRepository) Create(ctx context.Context, session *models.PomodoroSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByUserAndBook lists sessions newest first. A zero bookID lists
// every session the user has recorded.
func (r *pomodoroRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) ([]models.PomodoroSession, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if bookID != 0 {
		query = query.Where("book_id = ?", bookID)
	}

	var sessions []models.PomodoroSession
	if err := query.Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
