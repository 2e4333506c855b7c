package models

import "gorm.io/gorm"

type LessonNote struct {
	gorm.Model
	UserID   uint
	CourseID uint
	LessonID uint
	Text     string
}

type LessonBookmark struct {
	gorm.Model
	UserID   uint
	CourseID uint
	LessonID uint
	Title    string
	Position int // scroll/seek position within the lesson
}
