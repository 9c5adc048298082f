package dto

// DTOs for library operations in HTTP API

type AddOfflineBookRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=500"`
	Author     string `json:"author"`
	TotalPages int    `json:"total_pages" binding:"required,gt=0"`
	ThumbData  string `json:"thumb_data"`
}

type UpdateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

type BookURIRequest struct {
	BookID int64 `uri:"book_id" binding:"required,gt=0"`
}
