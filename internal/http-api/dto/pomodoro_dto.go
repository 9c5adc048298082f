package dto

type LogPomodoroRequest struct {
	BookID   int64  `json:"book_id" binding:"required,gt=0"`
	Duration int    `json:"duration"` // minutes, defaults to 25
	Status   string `json:"status"`
}
