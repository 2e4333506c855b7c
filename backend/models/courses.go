package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title       string
	ShortDesc   string
	Description string
	Difficulty  string // beginner, intermediate, advanced
	Topic       string
	University  string
	AuthorID    uint
	LogoURL     string
	IsPublished bool `gorm:"default:false"`

	// Denormalized summaries of the lesson and quiz collections. Kept in
	// sync with the authoritative rows by the services package; every
	// lesson/quiz write that touches a projected field rewrites these in
	// the same transaction.
	LessonsMetadata string `gorm:"type:text;default:'[]'"` // JSON array of LessonMetadata
	QuizzesMetadata string `gorm:"type:text;default:'[]'"` // JSON array of QuizMetadata
	TotalLessons    int    `gorm:"default:0"`
	TotalQuizzes    int    `gorm:"default:0"`

	Lessons []Lesson
	Quizzes []Quiz
}

type Lesson struct {
	gorm.Model
	CourseID      uint
	Title         string
	Description   string
	Content       string
	ContentType   string `gorm:"default:text"` // text, video
	Duration      int    // minutes
	IsRequired    bool   `gorm:"default:true"`
	HasQuiz       bool   `gorm:"default:false"`
	SequenceOrder int
}

// LessonMetadata is the course-inline projection of a Lesson. Derived,
// never hand-edited.
type LessonMetadata struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Order      int    `json:"order"`
	Type       string `json:"type"`
	HasQuiz    bool   `json:"has_quiz"`
	Duration   int    `json:"duration"`
	IsRequired bool   `json:"is_required"`
}

// QuizMetadata is the course-inline projection of a Quiz.
type QuizMetadata struct {
	ID            uint    `json:"id"`
	LessonID      uint    `json:"lesson_id"`
	Title         string  `json:"title"`
	QuestionCount int     `json:"question_count"`
	PassingScore  float64 `json:"passing_score"`
	TimeLimit     int     `json:"time_limit"`
}

func (course *Course) DecodeLessonsMetadata() ([]LessonMetadata, error) {
	var entries []LessonMetadata
	if course.LessonsMetadata == "" {
		return entries, nil
	}
	err := json.Unmarshal([]byte(course.LessonsMetadata), &entries)
	return entries, err
}

func (course *Course) EncodeLessonsMetadata(entries []LessonMetadata) error {
	if entries == nil {
		entries = []LessonMetadata{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	course.LessonsMetadata = string(data)
	course.TotalLessons = len(entries)
	return nil
}

func (course *Course) DecodeQuizzesMetadata() ([]QuizMetadata, error) {
	var entries []QuizMetadata
	if course.QuizzesMetadata == "" {
		return entries, nil
	}
	err := json.Unmarshal([]byte(course.QuizzesMetadata), &entries)
	return entries, err
}

func (course *Course) EncodeQuizzesMetadata(entries []QuizMetadata) error {
	if entries == nil {
		entries = []QuizMetadata{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	course.QuizzesMetadata = string(data)
	course.TotalQuizzes = len(entries)
	return nil
}

type Enrollment struct {
	gorm.Model
	UserID   uint `gorm:"index:idx_enrollment_user_course"`
	CourseID uint `gorm:"index:idx_enrollment_user_course"`
}

type UserCourseProgress struct {
	gorm.Model
	UserID           uint
	CourseID         uint
	LessonsCompleted int
	HoursSpent       float64
	LastAccessed     string
	CompletionRate   float64
}
