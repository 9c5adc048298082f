package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookmise/internal/http-api/models"
	"bookmise/internal/http-api/repository"
	"bookmise/internal/realtime"

	"gorm.io/gorm"
)

// PostService is the social feed: posts, likes, and the change events
// the feed view subscribes to.
type PostService interface {
	Create(ctx context.Context, userID, content string, bookID *int64) (*models.Post, error)
	GetFeed(ctx context.Context, page, pageSize int) ([]models.Post, int64, error)
	UpdateContent(ctx context.Context, postID int64, userID, content string) (*models.Post, error)
	Delete(ctx context.Context, postID int64, userID string) error
	ToggleLike(ctx context.Context, userID string, postID int64) (liked bool, err error)
}

type postService struct {
	repo   repository.PostRepository
	broker *realtime.FeedBroker
}

func NewPostService(repo repository.PostRepository, broker *realtime.FeedBroker) PostService {
	return &postService{repo: repo, broker: broker}
}

func (s *postService) Create(ctx context.Context, userID, content string, bookID *int64) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidArgument)
	}

	post := &models.Post{
		UserID:  userID,
		Content: content,
		BookID:  bookID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.broker.Publish(ctx, realtime.TopicPosts, realtime.Event{
		Kind:      realtime.EventPostCreated,
		PostID:    post.ID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})

	return post, nil
}

func (s *postService) GetFeed(ctx context.Context, page, pageSize int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.GetFeed(ctx, page, pageSize)
}

func (s *postService) UpdateContent(ctx context.Context, postID int64, userID, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidArgument)
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}

	post.Content = content
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, postID int64, userID string) error {
	if err := s.repo.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.broker.Publish(ctx, realtime.TopicPosts, realtime.Event{
		Kind:      realtime.EventPostDeleted,
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	return nil
}

// ToggleLike likes a post the user hasn't liked, unlikes one they
// have. The counter never goes below zero.
func (s *postService) ToggleLike(ctx context.Context, userID string, postID int64) (bool, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return false, fmt.Errorf("load post: %w", err)
	}

	liked, err := s.repo.HasLike(ctx, userID, postID)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	if liked {
		if err := s.repo.RemoveLike(ctx, userID, postID); err != nil {
			return false, fmt.Errorf("remove like: %w", err)
		}
		count := post.LikeCount - 1
		if count < 0 {
			count = 0
		}
		if err := s.repo.SetLikeCount(ctx, postID, count); err != nil {
			return false, fmt.Errorf("update like count: %w", err)
		}
		return false, nil
	}

	if err := s.repo.AddLike(ctx, &models.PostLike{UserID: userID, PostID: postID}); err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	if err := s.repo.SetLikeCount(ctx, postID, post.LikeCount+1); err != nil {
		return false, fmt.Errorf("update like count: %w", err)
	}
	return true, nil
}
