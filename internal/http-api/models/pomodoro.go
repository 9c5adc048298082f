package models

import "time"

// PomodoroSession is a timed reading session logged against a book.
type PomodoroSession struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index:idx_pomodoro_user_book"`
	BookID    int64     `json:"book_id" gorm:"not null;index:idx_pomodoro_user_book"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	Duration  int       `json:"duration" gorm:"not null"` // minutes
	Status    string    `json:"status" gorm:"type:text"`
}

func (PomodoroSession) TableName() string {
	return "pomodoro_sessions"
}
