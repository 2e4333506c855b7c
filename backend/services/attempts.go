package services

import (
	"errors"
	"time"

	"learnhub/backend/models"

	"gorm.io/gorm"
)

// AttemptService drives the attempt lifecycle: start, record answers,
// submit. Grading is deferred entirely to submit time so answers recorded
// before a late quiz edit are graded against the current definition.
type AttemptService struct {
	DB *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{DB: db}
}

// StartAttempt creates attempt number priorCount+1 for the user. Fails
// when the quiz is missing, unpublished, or the user has exhausted the
// quiz's attempt allowance.
func (s *AttemptService) StartAttempt(userID, quizID uint) (*models.QuizAttempt, error) {
	var quiz models.Quiz
	if err := s.DB.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, ErrQuizNotPublished
	}

	var priorCount int64
	if err := s.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&priorCount).Error; err != nil {
		return nil, err
	}
	if quiz.MaxAttempts > 0 && int(priorCount) >= quiz.MaxAttempts {
		return nil, ErrMaxAttemptsExceeded
	}

	attempt := models.QuizAttempt{
		UserID:        userID,
		QuizID:        quiz.ID,
		CourseID:      quiz.CourseID,
		LessonID:      quiz.LessonID,
		AttemptNumber: int(priorCount) + 1,
		Status:        models.AttemptInProgress,
		Answers:       "[]",
		TotalPoints:   quiz.TotalPossiblePoints(),
		StartedAt:     time.Now(),
	}
	if err := s.DB.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// SaveAnswer upserts the answer by question id: an existing answer for
// that question is replaced in place, otherwise the answer is appended.
// The stored answer is provisional; no grading happens here. Only the
// attempt's owner may write to it.
func (s *AttemptService) SaveAnswer(userID, attemptID uint, questionID uint, value any) error {
	var attempt models.QuizAttempt
	if err := s.DB.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttemptNotFound
		}
		return err
	}
	if attempt.UserID != userID {
		return ErrNotAttemptOwner
	}
	if attempt.Status != models.AttemptInProgress {
		return ErrAttemptSubmitted
	}

	answers, err := attempt.DecodeAnswers()
	if err != nil {
		return err
	}

	replaced := false
	for i := range answers {
		if answers[i].QuestionID == questionID {
			answers[i] = models.Answer{QuestionID: questionID, Value: value}
			replaced = true
			break
		}
	}
	if !replaced {
		answers = append(answers, models.Answer{QuestionID: questionID, Value: value})
	}

	if err := attempt.EncodeAnswers(answers); err != nil {
		return err
	}
	return s.DB.Model(&attempt).Update("answers", attempt.Answers).Error
}

// SubmitAttempt grades every stored answer against the current quiz
// definition, aggregates the score and transitions the attempt to its
// terminal submitted state. timeSpent is taken from the caller, not
// measured here. Only the attempt's owner may submit it; the transition
// is irreversible, so a foreign submit would lock the owner out.
func (s *AttemptService) SubmitAttempt(userID, attemptID uint, timeSpentSeconds int) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := s.DB.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrAttemptSubmitted
	}

	var quiz models.Quiz
	if err := s.DB.Preload("Questions").First(&quiz, attempt.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	answers, err := attempt.DecodeAnswers()
	if err != nil {
		return nil, err
	}

	questionsByID := make(map[uint]*models.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questionsByID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	graded := make([]models.Answer, 0, len(answers))
	for _, answer := range answers {
		question, ok := questionsByID[answer.QuestionID]
		if !ok {
			// answer to a question deleted after it was recorded
			continue
		}
		graded = append(graded, GradeAnswer(question, answer))
	}

	result := ScoreAttempt(&quiz, graded)

	now := time.Now()
	attempt.Status = models.AttemptSubmitted
	attempt.Score = result.Score
	attempt.PointsEarned = result.PointsEarned
	attempt.TotalPoints = quiz.TotalPossiblePoints()
	attempt.IsPassed = result.IsPassed
	attempt.SubmittedAt = &now
	attempt.TimeSpent = timeSpentSeconds
	if err := attempt.EncodeAnswers(graded); err != nil {
		return nil, err
	}

	if err := s.DB.Save(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *AttemptService) GetAttempt(attemptID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := s.DB.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListAttempts returns a user's attempts for a quiz in attempt order.
func (s *AttemptService) ListAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number").Find(&attempts).Error
	return attempts, err
}

// BestAttempt returns the user's highest-scoring submitted attempt, or
// nil when none exist. Ties on score go to the lowest attempt number.
func (s *AttemptService) BestAttempt(userID, quizID uint) (*models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := s.DB.Where("user_id = ? AND quiz_id = ? AND status = ?",
		userID, quizID, models.AttemptSubmitted).
		Order("attempt_number").Find(&attempts).Error; err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, nil
	}

	best := &attempts[0]
	for i := 1; i < len(attempts); i++ {
		if attempts[i].Score > best.Score {
			best = &attempts[i]
		}
	}
	return best, nil
}
