package dto

// DTOs for progress-related operations in HTTP API

type RecordPageRequest struct {
	PageNo int `json:"page_no" binding:"required,gt=0"`
}

type ProgressResponse struct {
	UserID    string  `json:"user_id"`
	BookID    int64   `json:"book_id"`
	PageNo    int     `json:"page_no"`
	Percent   float64 `json:"percent"`
	UpdatedAt string  `json:"updated_at"`
}

type CurrentPageResponse struct {
	BookID int64 `json:"book_id"`
	PageNo int   `json:"page_no"`
}
