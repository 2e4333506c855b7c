package services

import "learnhub/backend/models"

// Metadata builders. Each is a pure projection of the authoritative row
// plus an explicit order value; the caller decides where in the course
// arrays the entry lands.

func BuildLessonMetadata(lesson *models.Lesson, order int) models.LessonMetadata {
	return models.LessonMetadata{
		ID:         lesson.ID,
		Title:      lesson.Title,
		Order:      order,
		Type:       lesson.ContentType,
		HasQuiz:    lesson.HasQuiz,
		Duration:   lesson.Duration,
		IsRequired: lesson.IsRequired,
	}
}

func BuildQuizMetadata(quiz *models.Quiz, questionCount int) models.QuizMetadata {
	return models.QuizMetadata{
		ID:            quiz.ID,
		LessonID:      quiz.LessonID,
		Title:         quiz.Title,
		QuestionCount: questionCount,
		PassingScore:  quiz.PassingScore,
		TimeLimit:     quiz.TimeLimit,
	}
}

// LessonUpdate carries the optional fields an instructor may change on a
// lesson. Nil means "leave untouched".
type LessonUpdate struct {
	Title       *string
	Description *string
	Content     *string
	ContentType *string
	Duration    *int
	IsRequired  *bool
}

// TouchesProjection reports whether the update changes any field that is
// mirrored into the course's lessons metadata. Content and description
// edits are cheaper: they skip the course write entirely.
func (u LessonUpdate) TouchesProjection() bool {
	return u.Title != nil || u.ContentType != nil || u.Duration != nil || u.IsRequired != nil
}

func (u LessonUpdate) Apply(lesson *models.Lesson) {
	if u.Title != nil {
		lesson.Title = *u.Title
	}
	if u.Description != nil {
		lesson.Description = *u.Description
	}
	if u.Content != nil {
		lesson.Content = *u.Content
	}
	if u.ContentType != nil {
		lesson.ContentType = *u.ContentType
	}
	if u.Duration != nil {
		lesson.Duration = *u.Duration
	}
	if u.IsRequired != nil {
		lesson.IsRequired = *u.IsRequired
	}
}

// QuizUpdate carries the optional instructor-editable quiz fields.
type QuizUpdate struct {
	Title        *string
	PassingScore *float64
	TimeLimit    *int
	MaxAttempts  *int
	IsPublished  *bool
}

// TouchesProjection: title, passing score and time limit are mirrored
// into the course's quizzes metadata; max attempts and publication are
// not projected.
func (u QuizUpdate) TouchesProjection() bool {
	return u.Title != nil || u.PassingScore != nil || u.TimeLimit != nil
}

func (u QuizUpdate) Apply(quiz *models.Quiz) {
	if u.Title != nil {
		quiz.Title = *u.Title
	}
	if u.PassingScore != nil {
		quiz.PassingScore = *u.PassingScore
	}
	if u.TimeLimit != nil {
		quiz.TimeLimit = *u.TimeLimit
	}
	if u.MaxAttempts != nil {
		quiz.MaxAttempts = *u.MaxAttempts
	}
	if u.IsPublished != nil {
		quiz.IsPublished = *u.IsPublished
	}
}

// replaceLessonEntry swaps the entry with the matching id in place,
// preserving its position. Returns false when no entry matches.
func replaceLessonEntry(entries []models.LessonMetadata, entry models.LessonMetadata) bool {
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			return true
		}
	}
	return false
}

func replaceQuizEntry(entries []models.QuizMetadata, entry models.QuizMetadata) bool {
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			return true
		}
	}
	return false
}

// removeLessonEntry strips the matching entry and renumbers the rest to
// a contiguous 1-based sequence.
func removeLessonEntry(entries []models.LessonMetadata, lessonID uint) []models.LessonMetadata {
	kept := make([]models.LessonMetadata, 0, len(entries))
	for _, e := range entries {
		if e.ID != lessonID {
			kept = append(kept, e)
		}
	}
	for i := range kept {
		kept[i].Order = i + 1
	}
	return kept
}

func removeQuizEntry(entries []models.QuizMetadata, quizID uint) []models.QuizMetadata {
	kept := make([]models.QuizMetadata, 0, len(entries))
	for _, e := range entries {
		if e.ID != quizID {
			kept = append(kept, e)
		}
	}
	return kept
}
