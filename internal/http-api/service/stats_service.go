package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"bookmise/internal/cache"
	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/repository"
)

// StatsService rolls up per-user reading totals for the profile page.
type StatsService interface {
	GetProfileStats(ctx context.Context, userID string) (*dto.ProfileStatsResponse, error)
	Streak(ctx context.Context, userID string) (int, error)
}

type statsService struct {
	bookRepo     repository.BookRepository
	progressRepo repository.ProgressRepository
	statsCache   *cache.StatsCache
	logger       *slog.Logger
	now          func() time.Time
}

func NewStatsService(
	bookRepo repository.BookRepository,
	progressRepo repository.ProgressRepository,
	statsCache *cache.StatsCache,
) StatsService {
	return &statsService{
		bookRepo:     bookRepo,
		progressRepo: progressRepo,
		statsCache:   statsCache,
		logger:       slog.Default(),
		now:          time.Now,
	}
}

// GetProfileStats computes book count, total pages read, the hours
// estimate and the streak in one pass over the user's progress rows.
// Total pages is the sum of each book's current page, not cumulative
// pages turned; jumping from page 10 to 50 contributes 50, not 40.
func (s *statsService) GetProfileStats(ctx context.Context, userID string) (*dto.ProfileStatsResponse, error) {
	var cached dto.ProfileStatsResponse
	if hit, err := s.statsCache.Get(ctx, userID, &cached); err != nil {
		s.logger.Warn("stats_cache_read_failed", "user_id", userID, "error", err)
	} else if hit {
		return &cached, nil
	}

	bookCount, err := s.bookRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	progress, err := s.progressRepo.GetAllProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	totalPages := 0
	timestamps := make([]time.Time, 0, len(progress))
	for _, p := range progress {
		totalPages += p.PageNo
		timestamps = append(timestamps, p.UpdatedAt)
	}

	stats := &dto.ProfileStatsResponse{
		BookCount:      bookCount,
		TotalPagesRead: totalPages,
		EstimatedHours: estimateHours(totalPages),
		Streak:         CalculateStreak(s.now(), timestamps),
	}

	if err := s.statsCache.Set(ctx, userID, stats); err != nil {
		s.logger.Warn("stats_cache_write_failed", "user_id", userID, "error", err)
	}

	return stats, nil
}

func (s *statsService) Streak(ctx context.Context, userID string) (int, error) {
	progress, err := s.progressRepo.GetAllProgress(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load progress: %w", err)
	}
	timestamps := make([]time.Time, 0, len(progress))
	for _, p := range progress {
		timestamps = append(timestamps, p.UpdatedAt)
	}
	return CalculateStreak(s.now(), timestamps), nil
}

// estimateHours applies the ~1 minute per page heuristic, rounded to
// one decimal place.
func estimateHours(totalPages int) float64 {
	return math.Round(float64(totalPages)/60*10) / 10
}

// CalculateStreak counts consecutive calendar days ending today on
// which any progress was recorded. Days use the process-local
// calendar; timestamps are deduplicated to dates before the walk, so
// several updates on one day count once. A gap, or no entry today,
// ends the streak immediately (empty input yields 0).
func CalculateStreak(now time.Time, timestamps []time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(timestamps))
	days := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		day := truncateToDay(ts.Local())
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	// most recent first
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := truncateToDay(now.Local())
	streak := 0
	for i, day := range days {
		if day.Equal(today.AddDate(0, 0, -i)) {
			streak++
		} else {
			break
		}
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
