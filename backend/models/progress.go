package models

import (
	"time"

	"gorm.io/gorm"
)

type UserActivity struct {
	gorm.Model
	UserID      uint
	ActionType  string // "course_start", "course_complete", "quiz_start", "quiz_complete"
	TargetID    uint   // course_id or quiz_id
	TargetTitle string
	Duration    float64 // for completed actions
}

type MonthlyProgress struct {
	Month            time.Month
	Year             int
	StreakDays       int
	CoursesCompleted int64
	LoginFrequency   map[string]int // day -> count
}

type ProgressOverview struct {
	TotalStreakDays       int
	TotalCoursesCompleted int
	TotalQuizzesCompleted int
	MonthlyProgress       []MonthlyProgress
}
