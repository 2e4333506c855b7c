package services

import "errors"

// Sentinel errors surfaced by the quiz and metadata services. Controllers
// map them to HTTP statuses with errors.Is; nothing here is retried or
// recovered internally.
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrQuizNotPublished    = errors.New("quiz is not published")
	ErrMaxAttemptsExceeded = errors.New("maximum attempts exceeded")
	ErrAttemptSubmitted    = errors.New("attempt already submitted")
	ErrNotAttemptOwner     = errors.New("attempt belongs to another user")
)
