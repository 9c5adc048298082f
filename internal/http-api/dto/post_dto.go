package dto

import (
	"time"

	"bookmise/internal/http-api/models"
)

// DTOs for the social feed

type CreatePostRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
	BookID  *int64 `json:"book_id"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type PostURIRequest struct {
	PostID int64 `uri:"post_id" binding:"required,gt=0"`
}

type PostResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	BookID    *int64    `json:"book_id,omitempty"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModelToPostResponse(post *models.Post) *PostResponse {
	resp := &PostResponse{
		ID:        post.ID,
		Content:   post.Content,
		BookID:    post.BookID,
		LikeCount: post.LikeCount,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.User != nil {
		resp.Username = post.User.Username
	}
	return resp
}

type PaginatedPostResponse struct {
	Data       []PostResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedPostResponse(data []PostResponse, total, page, pageSize int) *PaginatedPostResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedPostResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// CreateCommentRequest adds a comment to a post
type CreateCommentRequest struct {
	PostID  int64  `json:"post_id" binding:"required,gt=0"`
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User != nil {
		resp.Username = comment.User.Username
	}
	return resp
}
