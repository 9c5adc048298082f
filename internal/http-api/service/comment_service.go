package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookmise/internal/http-api/models"
	"bookmise/internal/http-api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	Add(ctx context.Context, userID string, postID int64, content string) (*models.Comment, error)
	ListForPost(ctx context.Context, postID int64) ([]models.Comment, error)
	Delete(ctx context.Context, commentID int64, userID string) error
}

type commentService struct {
	repo     repository.CommentRepository
	postRepo repository.PostRepository
}

func NewCommentService(repo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{repo: repo, postRepo: postRepo}
}

func (s *commentService) Add(ctx context.Context, userID string, postID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidArgument)
	}

	// Check the post exists
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	comment := &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	// Reload with user data for the response
	created, err := s.repo.GetByID(ctx, comment.ID)
	if err != nil {
		return comment, nil
	}
	return created, nil
}

func (s *commentService) ListForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.repo.GetByPost(ctx, postID)
}

func (s *commentService) Delete(ctx context.Context, commentID int64, userID string) error {
	if err := s.repo.Delete(ctx, commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
