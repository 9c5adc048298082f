package service

import (
	"context"
	"fmt"
	"time"

	"bookmise/internal/http-api/models"
	"bookmise/internal/http-api/repository"
)

const defaultPomodoroMinutes = 25

type PomodoroService interface {
	Log(ctx context.Context, userID string, bookID int64, durationMinutes int, status string) (*models.PomodoroSession, error)
	List(ctx context.Context, userID string, bookID int64) ([]models.PomodoroSession, error)
}

type pomodoroService struct {
	repo repository.PomodoroRepository
}

func NewPomodoroService(repo repository.PomodoroRepository) PomodoroService {
	return &pomodoroService{repo: repo}
}

// Log records a timed reading session ending durationMinutes from now.
func (s *pomodoroService) Log(ctx context.Context, userID string, bookID int64, durationMinutes int, status string) (*models.PomodoroSession, error) {
	if durationMinutes <= 0 {
		durationMinutes = defaultPomodoroMinutes
	}

	start := time.Now()
	session := &models.PomodoroSession{
		UserID:    userID,
		BookID:    bookID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationMinutes) * time.Minute),
		Duration:  durationMinutes,
		Status:    status,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("log pomodoro: %w", err)
	}
	return session, nil
}

func (s *pomodoroService) List(ctx context.Context, userID string, bookID int64) ([]models.PomodoroSession, error) {
	return s.repo.GetByUserAndBook(ctx, userID, bookID)
}
