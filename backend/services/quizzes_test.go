package services

import (
	"testing"

	"learnhub/backend/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedCourseWithLesson builds a course with one lesson through the
// services so the metadata starts consistent.
func seedCourseWithLesson(t *testing.T, db *gorm.DB) (*models.Course, *models.Lesson) {
	t.Helper()

	course := seedCourse(t, db)
	lesson := models.Lesson{Title: "Cells", ContentType: "video", Duration: 10}
	assert.NoError(t, NewLessonService(db).CreateLesson(course.ID, &lesson))
	return course, &lesson
}

func TestCreateQuizSyncsCourseAndLesson(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint", PassingScore: 75, TimeLimit: 15}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))
	assert.Equal(t, course.ID, quiz.CourseID)
	assert.Equal(t, lesson.ID, quiz.LessonID)

	reloaded := loadCourse(t, db, course.ID)
	assert.Equal(t, 1, reloaded.TotalQuizzes)

	quizEntries, err := reloaded.DecodeQuizzesMetadata()
	assert.NoError(t, err)
	assert.Len(t, quizEntries, 1)
	assert.Equal(t, quiz.ID, quizEntries[0].ID)
	assert.Equal(t, lesson.ID, quizEntries[0].LessonID)
	assert.Equal(t, "Checkpoint", quizEntries[0].Title)
	assert.Equal(t, 0, quizEntries[0].QuestionCount)
	assert.Equal(t, float64(75), quizEntries[0].PassingScore)
	assert.Equal(t, 15, quizEntries[0].TimeLimit)

	// the lesson's entry now advertises the quiz
	lessonEntries, err := reloaded.DecodeLessonsMetadata()
	assert.NoError(t, err)
	assert.True(t, lessonEntries[0].HasQuiz)

	var row models.Lesson
	assert.NoError(t, db.First(&row, lesson.ID).Error)
	assert.True(t, row.HasQuiz)
}

func TestCreateQuizLessonMustBelongToCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, _ := seedCourseWithLesson(t, db)
	_, foreignLesson := seedCourseWithLesson(t, db)

	err := svc.CreateQuiz(course.ID, foreignLesson.ID, &models.Quiz{Title: "Stray"})
	assert.ErrorIs(t, err, ErrLessonNotFound)

	var count int64
	db.Model(&models.Quiz{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateQuizProjectedFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint", PassingScore: 70}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))

	title := "Final Checkpoint"
	score := 85.0
	updated, err := svc.UpdateQuiz(quiz.ID, QuizUpdate{Title: &title, PassingScore: &score})
	assert.NoError(t, err)
	assert.Equal(t, "Final Checkpoint", updated.Title)

	entries, err := loadCourse(t, db, course.ID).DecodeQuizzesMetadata()
	assert.NoError(t, err)
	assert.Equal(t, "Final Checkpoint", entries[0].Title)
	assert.Equal(t, float64(85), entries[0].PassingScore)
}

func TestUpdateQuizUnprojectedFieldsSkipCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint"}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))
	before := loadCourse(t, db, course.ID)

	published := true
	attempts := 3
	updated, err := svc.UpdateQuiz(quiz.ID, QuizUpdate{IsPublished: &published, MaxAttempts: &attempts})
	assert.NoError(t, err)
	assert.True(t, updated.IsPublished)
	assert.Equal(t, 3, updated.MaxAttempts)

	after := loadCourse(t, db, course.ID)
	assert.Equal(t, before.QuizzesMetadata, after.QuizzesMetadata)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestAddQuestionBumpsMetadataCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint"}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))

	q1 := models.Question{Kind: models.QuestionMultipleChoice, Prompt: "Q1", CorrectOption: "a", Points: 1}
	assert.NoError(t, svc.AddQuestion(quiz.ID, &q1))
	assert.Equal(t, 1, q1.SequenceOrder)

	q2 := models.Question{Kind: models.QuestionTrueFalse, Prompt: "Q2", CorrectOption: "true", Points: 1}
	assert.NoError(t, svc.AddQuestion(quiz.ID, &q2))
	assert.Equal(t, 2, q2.SequenceOrder)

	entries, err := loadCourse(t, db, course.ID).DecodeQuizzesMetadata()
	assert.NoError(t, err)
	assert.Equal(t, 2, entries[0].QuestionCount)
}

func TestDeleteQuestionRenumbersAndRefreshes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint"}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))

	questions := make([]models.Question, 3)
	for i, prompt := range []string{"Q1", "Q2", "Q3"} {
		questions[i] = models.Question{Kind: models.QuestionMultipleChoice, Prompt: prompt, CorrectOption: "a"}
		assert.NoError(t, svc.AddQuestion(quiz.ID, &questions[i]))
	}

	assert.NoError(t, svc.DeleteQuestion(quiz.ID, questions[0].ID))

	reloadedQuiz, err := svc.GetQuiz(quiz.ID)
	assert.NoError(t, err)
	assert.Len(t, reloadedQuiz.Questions, 2)
	assert.Equal(t, "Q2", reloadedQuiz.Questions[0].Prompt)
	assert.Equal(t, 1, reloadedQuiz.Questions[0].SequenceOrder)
	assert.Equal(t, "Q3", reloadedQuiz.Questions[1].Prompt)
	assert.Equal(t, 2, reloadedQuiz.Questions[1].SequenceOrder)

	entries, err := loadCourse(t, db, course.ID).DecodeQuizzesMetadata()
	assert.NoError(t, err)
	assert.Equal(t, 2, entries[0].QuestionCount)
}

func TestUpdateQuestion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint"}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))
	question := models.Question{Kind: models.QuestionMultipleChoice, Prompt: "Old", CorrectOption: "a"}
	assert.NoError(t, svc.AddQuestion(quiz.ID, &question))

	updated, err := svc.UpdateQuestion(quiz.ID, question.ID, func(q *models.Question) {
		q.Prompt = "New"
		q.CorrectOption = "b"
	})
	assert.NoError(t, err)
	assert.Equal(t, "New", updated.Prompt)
	assert.Equal(t, "b", updated.CorrectOption)

	_, err = svc.UpdateQuestion(quiz.ID, 999, func(q *models.Question) {})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuizCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)
	course, lesson := seedCourseWithLesson(t, db)

	quiz := models.Quiz{Title: "Checkpoint", IsPublished: true}
	assert.NoError(t, svc.CreateQuiz(course.ID, lesson.ID, &quiz))
	question := models.Question{Kind: models.QuestionTrueFalse, Prompt: "Q", CorrectOption: "true"}
	assert.NoError(t, svc.AddQuestion(quiz.ID, &question))

	attempts := NewAttemptService(db)
	_, err := attempts.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)

	assert.NoError(t, svc.DeleteQuiz(quiz.ID))

	var quizCount, questionCount, attemptCount int64
	db.Model(&models.Quiz{}).Count(&quizCount)
	db.Model(&models.Question{}).Count(&questionCount)
	db.Model(&models.QuizAttempt{}).Count(&attemptCount)
	assert.Equal(t, int64(0), quizCount)
	assert.Equal(t, int64(0), questionCount)
	assert.Equal(t, int64(0), attemptCount)

	reloaded := loadCourse(t, db, course.ID)
	assert.Equal(t, 0, reloaded.TotalQuizzes)
	quizEntries, err := reloaded.DecodeQuizzesMetadata()
	assert.NoError(t, err)
	assert.Empty(t, quizEntries)

	lessonEntries, err := reloaded.DecodeLessonsMetadata()
	assert.NoError(t, err)
	assert.False(t, lessonEntries[0].HasQuiz)

	var row models.Lesson
	assert.NoError(t, db.First(&row, lesson.ID).Error)
	assert.False(t, row.HasQuiz)
}

func TestDeleteQuizMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db)

	assert.ErrorIs(t, svc.DeleteQuiz(999), ErrQuizNotFound)
}
