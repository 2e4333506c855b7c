package services

import (
	"testing"

	"learnhub/backend/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedQuiz inserts a published two-question quiz worth 20 points with a
// 70 percent passing score.
func seedQuiz(t *testing.T, db *gorm.DB) *models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		CourseID:     1,
		LessonID:     1,
		Title:        "Cell Biology Checkpoint",
		PassingScore: 70,
		IsPublished:  true,
	}
	assert.NoError(t, db.Create(&quiz).Error)

	questions := []models.Question{
		{
			QuizID: quiz.ID, Kind: models.QuestionMultipleChoice,
			Prompt: "Which organelle produces ATP?", Points: 10, SequenceOrder: 1,
			Options:       `[{"id":"a","text":"Nucleus"},{"id":"b","text":"Mitochondria"}]`,
			CorrectOption: "b",
		},
		{
			QuizID: quiz.ID, Kind: models.QuestionTrueFalse,
			Prompt: "Plant cells have a cell wall.", Points: 10, SequenceOrder: 2,
			CorrectOption: "true",
		},
	}
	for i := range questions {
		assert.NoError(t, db.Create(&questions[i]).Error)
	}

	assert.NoError(t, db.Preload("Questions").First(&quiz, quiz.ID).Error)
	return &quiz
}

func TestStartAttemptNumbersSequentially(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	first, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, models.AttemptInProgress, first.Status)
	assert.Equal(t, "[]", first.Answers)
	assert.Equal(t, float64(20), first.TotalPoints)

	second, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)

	// a different user starts back at one
	other, err := svc.StartAttempt(2, quiz.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, other.AttemptNumber)
}

func TestStartAttemptEnforcesMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)
	assert.NoError(t, db.Model(quiz).Update("max_attempts", 2).Error)

	_, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)
	_, err = svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)

	_, err = svc.StartAttempt(1, quiz.ID)
	assert.ErrorIs(t, err, ErrMaxAttemptsExceeded)

	// in-progress attempts count against the allowance too
	var count int64
	db.Model(&models.QuizAttempt{}).Where("user_id = ? AND quiz_id = ?", 1, quiz.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestStartAttemptUnpublishedQuiz(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)
	assert.NoError(t, db.Model(quiz).Update("is_published", false).Error)

	_, err := svc.StartAttempt(1, quiz.ID)
	assert.ErrorIs(t, err, ErrQuizNotPublished)
}

func TestStartAttemptMissingQuiz(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)

	_, err := svc.StartAttempt(1, 999)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSaveAnswerUpsertsByQuestion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)

	q1, q2 := quiz.Questions[0].ID, quiz.Questions[1].ID
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, q1, "a"))
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, q2, "true"))
	// changing the first answer replaces it in place
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, q1, "b"))

	reloaded, err := svc.GetAttempt(attempt.ID)
	assert.NoError(t, err)
	answers, err := reloaded.DecodeAnswers()
	assert.NoError(t, err)
	assert.Len(t, answers, 2)
	assert.Equal(t, q1, answers[0].QuestionID)
	assert.Equal(t, "b", answers[0].Value)
	assert.Equal(t, q2, answers[1].QuestionID)
}

func TestSubmitAttemptGradesAndFinalizes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)

	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[0].ID, "b"))
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[1].ID, "false"))

	submitted, err := svc.SubmitAttempt(1, attempt.ID, 240)
	assert.NoError(t, err)
	assert.Equal(t, models.AttemptSubmitted, submitted.Status)
	assert.Equal(t, float64(50), submitted.Score)
	assert.Equal(t, float64(10), submitted.PointsEarned)
	assert.Equal(t, float64(20), submitted.TotalPoints)
	assert.False(t, submitted.IsPassed)
	assert.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, 240, submitted.TimeSpent)

	answers, err := submitted.DecodeAnswers()
	assert.NoError(t, err)
	assert.Len(t, answers, 2)
	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, float64(10), answers[0].PointsEarned)
	assert.False(t, answers[1].IsCorrect)
	assert.Equal(t, float64(10), answers[1].PointsPossible)
}

func TestSubmitAttemptPassing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	attempt, _ := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[0].ID, "b"))
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[1].ID, "true"))

	submitted, err := svc.SubmitAttempt(1, attempt.ID, 60)
	assert.NoError(t, err)
	assert.Equal(t, float64(100), submitted.Score)
	assert.True(t, submitted.IsPassed)
}

func TestSubmittedAttemptIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	attempt, _ := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[0].ID, "b"))
	submitted, err := svc.SubmitAttempt(1, attempt.ID, 30)
	assert.NoError(t, err)

	err = svc.SaveAnswer(1, attempt.ID, quiz.Questions[0].ID, "a")
	assert.ErrorIs(t, err, ErrAttemptSubmitted)
	_, err = svc.SubmitAttempt(1, attempt.ID, 99)
	assert.ErrorIs(t, err, ErrAttemptSubmitted)

	// the stored attempt is untouched by either rejected call
	reloaded, err := svc.GetAttempt(attempt.ID)
	assert.NoError(t, err)
	assert.Equal(t, submitted.Score, reloaded.Score)
	assert.Equal(t, submitted.Answers, reloaded.Answers)
	assert.Equal(t, 30, reloaded.TimeSpent)
}

func TestAttemptMutationsRequireOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[0].ID, "b"))

	// another user can neither overwrite answers nor force the terminal
	// transition
	err = svc.SaveAnswer(2, attempt.ID, quiz.Questions[0].ID, "a")
	assert.ErrorIs(t, err, ErrNotAttemptOwner)
	_, err = svc.SubmitAttempt(2, attempt.ID, 10)
	assert.ErrorIs(t, err, ErrNotAttemptOwner)

	reloaded, err := svc.GetAttempt(attempt.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.AttemptInProgress, reloaded.Status)
	answers, err := reloaded.DecodeAnswers()
	assert.NoError(t, err)
	assert.Len(t, answers, 1)
	assert.Equal(t, "b", answers[0].Value)

	// the owner is unaffected
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[1].ID, "true"))
	submitted, err := svc.SubmitAttempt(1, attempt.ID, 60)
	assert.NoError(t, err)
	assert.Equal(t, models.AttemptSubmitted, submitted.Status)
}

func TestSubmitSkipsAnswersToDeletedQuestions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	attempt, _ := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[0].ID, "b"))
	assert.NoError(t, svc.SaveAnswer(1, attempt.ID, quiz.Questions[1].ID, "true"))

	// question removed between save and submit
	assert.NoError(t, db.Unscoped().Delete(&models.Question{}, quiz.Questions[1].ID).Error)

	submitted, err := svc.SubmitAttempt(1, attempt.ID, 45)
	assert.NoError(t, err)
	assert.Equal(t, float64(100), submitted.Score)
	assert.Equal(t, float64(10), submitted.TotalPoints)

	answers, _ := submitted.DecodeAnswers()
	assert.Len(t, answers, 1)
	assert.Equal(t, quiz.Questions[0].ID, answers[0].QuestionID)
}

func TestListAttemptsOrdered(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.StartAttempt(1, quiz.ID)
		assert.NoError(t, err)
	}
	_, err := svc.StartAttempt(2, quiz.ID)
	assert.NoError(t, err)

	attempts, err := svc.ListAttempts(1, quiz.ID)
	assert.NoError(t, err)
	assert.Len(t, attempts, 3)
	for i, attempt := range attempts {
		assert.Equal(t, i+1, attempt.AttemptNumber)
	}
}

func TestBestAttemptTieGoesToEarliest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	scores := []float64{50, 100, 100, 75}
	for _, score := range scores {
		attempt, err := svc.StartAttempt(1, quiz.ID)
		assert.NoError(t, err)
		assert.NoError(t, db.Model(attempt).Updates(map[string]any{
			"status": models.AttemptSubmitted,
			"score":  score,
		}).Error)
	}

	best, err := svc.BestAttempt(1, quiz.ID)
	assert.NoError(t, err)
	assert.NotNil(t, best)
	assert.Equal(t, float64(100), best.Score)
	assert.Equal(t, 2, best.AttemptNumber)
}

func TestBestAttemptIgnoresInProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttemptService(db)
	quiz := seedQuiz(t, db)

	_, err := svc.StartAttempt(1, quiz.ID)
	assert.NoError(t, err)

	best, err := svc.BestAttempt(1, quiz.ID)
	assert.NoError(t, err)
	assert.Nil(t, best)
}
