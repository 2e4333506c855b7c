package services

import (
	"testing"

	"learnhub/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildLessonMetadata(t *testing.T) {
	lesson := &models.Lesson{
		Title:       "Intro to Cells",
		ContentType: "video",
		Duration:    15,
		IsRequired:  true,
		HasQuiz:     true,
	}
	lesson.ID = 42

	entry := BuildLessonMetadata(lesson, 3)
	assert.Equal(t, uint(42), entry.ID)
	assert.Equal(t, "Intro to Cells", entry.Title)
	assert.Equal(t, 3, entry.Order)
	assert.Equal(t, "video", entry.Type)
	assert.True(t, entry.HasQuiz)
	assert.Equal(t, 15, entry.Duration)
	assert.True(t, entry.IsRequired)

	// pure: the source row is never mutated by building an entry
	again := BuildLessonMetadata(lesson, 3)
	assert.Equal(t, entry, again)
	assert.Equal(t, "Intro to Cells", lesson.Title)
}

func TestBuildQuizMetadata(t *testing.T) {
	quiz := &models.Quiz{
		LessonID:     7,
		Title:        "Checkpoint",
		PassingScore: 80,
		TimeLimit:    20,
	}
	quiz.ID = 9

	entry := BuildQuizMetadata(quiz, 5)
	assert.Equal(t, uint(9), entry.ID)
	assert.Equal(t, uint(7), entry.LessonID)
	assert.Equal(t, "Checkpoint", entry.Title)
	assert.Equal(t, 5, entry.QuestionCount)
	assert.Equal(t, float64(80), entry.PassingScore)
	assert.Equal(t, 20, entry.TimeLimit)
}

func TestLessonUpdateTouchesProjection(t *testing.T) {
	title := "New Title"
	content := "body text"
	duration := 30
	required := false

	assert.False(t, LessonUpdate{}.TouchesProjection())
	assert.False(t, LessonUpdate{Content: &content}.TouchesProjection())
	assert.False(t, LessonUpdate{Description: &content}.TouchesProjection())
	assert.True(t, LessonUpdate{Title: &title}.TouchesProjection())
	assert.True(t, LessonUpdate{Duration: &duration}.TouchesProjection())
	assert.True(t, LessonUpdate{IsRequired: &required}.TouchesProjection())
}

func TestQuizUpdateTouchesProjection(t *testing.T) {
	title := "Renamed"
	score := 65.0
	limit := 10
	attempts := 3
	published := true

	assert.False(t, QuizUpdate{}.TouchesProjection())
	assert.False(t, QuizUpdate{MaxAttempts: &attempts}.TouchesProjection())
	assert.False(t, QuizUpdate{IsPublished: &published}.TouchesProjection())
	assert.True(t, QuizUpdate{Title: &title}.TouchesProjection())
	assert.True(t, QuizUpdate{PassingScore: &score}.TouchesProjection())
	assert.True(t, QuizUpdate{TimeLimit: &limit}.TouchesProjection())
}

func TestLessonUpdateApplyOnlySetFields(t *testing.T) {
	lesson := &models.Lesson{
		Title:       "Old",
		Description: "keep me",
		ContentType: "text",
		Duration:    10,
		IsRequired:  true,
	}

	title := "New"
	duration := 25
	LessonUpdate{Title: &title, Duration: &duration}.Apply(lesson)

	assert.Equal(t, "New", lesson.Title)
	assert.Equal(t, 25, lesson.Duration)
	assert.Equal(t, "keep me", lesson.Description)
	assert.Equal(t, "text", lesson.ContentType)
	assert.True(t, lesson.IsRequired)
}

func TestReplaceLessonEntryPreservesPosition(t *testing.T) {
	entries := []models.LessonMetadata{
		{ID: 1, Title: "A", Order: 1},
		{ID: 2, Title: "B", Order: 2},
		{ID: 3, Title: "C", Order: 3},
	}

	ok := replaceLessonEntry(entries, models.LessonMetadata{ID: 2, Title: "B2", Order: 2})
	assert.True(t, ok)
	assert.Equal(t, "B2", entries[1].Title)
	assert.Equal(t, "A", entries[0].Title)
	assert.Equal(t, "C", entries[2].Title)

	assert.False(t, replaceLessonEntry(entries, models.LessonMetadata{ID: 99}))
}

func TestRemoveLessonEntryRenumbers(t *testing.T) {
	entries := []models.LessonMetadata{
		{ID: 1, Title: "A", Order: 1},
		{ID: 2, Title: "B", Order: 2},
		{ID: 3, Title: "C", Order: 3},
	}

	kept := removeLessonEntry(entries, 2)
	assert.Len(t, kept, 2)
	assert.Equal(t, uint(1), kept[0].ID)
	assert.Equal(t, 1, kept[0].Order)
	assert.Equal(t, uint(3), kept[1].ID)
	assert.Equal(t, 2, kept[1].Order)

	// removing an absent id is a no-op apart from renumbering
	same := removeLessonEntry(entries, 99)
	assert.Len(t, same, 3)
}

func TestRemoveQuizEntry(t *testing.T) {
	entries := []models.QuizMetadata{
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
	}

	kept := removeQuizEntry(entries, 1)
	assert.Len(t, kept, 1)
	assert.Equal(t, uint(2), kept[0].ID)

	assert.Empty(t, removeQuizEntry(kept, 2))
}
