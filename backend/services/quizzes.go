package services

import (
	"errors"

	"learnhub/backend/models"

	"gorm.io/gorm"
)

// QuizService owns quiz and question writes. Like LessonService, every
// mutation that changes a projected field (title, passing score, time
// limit, question count) rewrites the course's quizzes metadata in the
// same transaction. Creating or deleting a quiz also flips the owning
// lesson's has_quiz flag and refreshes that lesson's metadata entry.
type QuizService struct {
	DB *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{DB: db}
}

func (s *QuizService) CreateQuiz(courseID, lessonID uint, quiz *models.Quiz) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var lesson models.Lesson
		if err := tx.Where("id = ? AND course_id = ?", lessonID, courseID).
			First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		quiz.CourseID = courseID
		quiz.LessonID = lessonID
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}

		entries, err := course.DecodeQuizzesMetadata()
		if err != nil {
			return err
		}
		entries = append(entries, BuildQuizMetadata(quiz, len(quiz.Questions)))
		if err := course.EncodeQuizzesMetadata(entries); err != nil {
			return err
		}

		lessonEntries, err := course.DecodeLessonsMetadata()
		if err != nil {
			return err
		}
		lesson.HasQuiz = true
		if err := tx.Model(&lesson).Update("has_quiz", true).Error; err != nil {
			return err
		}
		replaceLessonEntry(lessonEntries, BuildLessonMetadata(&lesson, lesson.SequenceOrder))
		if err := course.EncodeLessonsMetadata(lessonEntries); err != nil {
			return err
		}

		return tx.Model(&course).Updates(map[string]any{
			"quizzes_metadata": course.QuizzesMetadata,
			"total_quizzes":    course.TotalQuizzes,
			"lessons_metadata": course.LessonsMetadata,
		}).Error
	})
}

func (s *QuizService) UpdateQuiz(quizID uint, update QuizUpdate) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.DB.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	update.Apply(&quiz)

	if !update.TouchesProjection() {
		if err := s.DB.Save(&quiz).Error; err != nil {
			return nil, err
		}
		return &quiz, nil
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&quiz).Error; err != nil {
			return err
		}
		return s.refreshQuizEntry(tx, &quiz, len(quiz.Questions))
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// DeleteQuiz removes the quiz, its questions and every attempt against
// it, strips the course metadata entry and clears the lesson's has_quiz
// flag, all in one transaction.
func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		var course models.Course
		if err := tx.First(&course, quiz.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := tx.Unscoped().Where("quiz_id = ?", quizID).
			Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).
			Delete(&models.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&quiz).Error; err != nil {
			return err
		}

		entries, err := course.DecodeQuizzesMetadata()
		if err != nil {
			return err
		}
		if err := course.EncodeQuizzesMetadata(removeQuizEntry(entries, quizID)); err != nil {
			return err
		}

		var lesson models.Lesson
		if err := tx.First(&lesson, quiz.LessonID).Error; err == nil {
			lesson.HasQuiz = false
			if err := tx.Model(&lesson).Update("has_quiz", false).Error; err != nil {
				return err
			}
			lessonEntries, err := course.DecodeLessonsMetadata()
			if err != nil {
				return err
			}
			replaceLessonEntry(lessonEntries, BuildLessonMetadata(&lesson, lesson.SequenceOrder))
			if err := course.EncodeLessonsMetadata(lessonEntries); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Model(&course).Updates(map[string]any{
			"quizzes_metadata": course.QuizzesMetadata,
			"total_quizzes":    course.TotalQuizzes,
			"lessons_metadata": course.LessonsMetadata,
		}).Error
	})
}

// AddQuestion appends the question to the quiz and bumps the metadata
// question count.
func (s *QuizService) AddQuestion(quizID uint, question *models.Question) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Question{}).
			Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
			return err
		}

		question.QuizID = quizID
		question.SequenceOrder = int(count) + 1
		if err := tx.Create(question).Error; err != nil {
			return err
		}

		return s.refreshQuizEntry(tx, &quiz, int(count)+1)
	})
}

func (s *QuizService) UpdateQuestion(quizID, questionID uint, apply func(*models.Question)) (*models.Question, error) {
	var question models.Question
	if err := s.DB.Where("id = ? AND quiz_id = ?", questionID, quizID).
		First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	apply(&question)
	if err := s.DB.Save(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// DeleteQuestion removes the question, renumbers the remaining question
// sequence and refreshes the metadata question count.
func (s *QuizService) DeleteQuestion(quizID, questionID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		var question models.Question
		if err := tx.Where("id = ? AND quiz_id = ?", questionID, quizID).
			First(&question).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
		if err := tx.Unscoped().Delete(&question).Error; err != nil {
			return err
		}

		var remaining []models.Question
		if err := tx.Where("quiz_id = ?", quizID).
			Order("sequence_order").Find(&remaining).Error; err != nil {
			return err
		}
		for i := range remaining {
			if remaining[i].SequenceOrder != i+1 {
				if err := tx.Model(&remaining[i]).
					Update("sequence_order", i+1).Error; err != nil {
					return err
				}
			}
		}

		return s.refreshQuizEntry(tx, &quiz, len(remaining))
	})
}

// GetQuiz loads a quiz with its questions ordered by sequence.
func (s *QuizService) GetQuiz(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) refreshQuizEntry(tx *gorm.DB, quiz *models.Quiz, questionCount int) error {
	var course models.Course
	if err := tx.First(&course, quiz.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	entries, err := course.DecodeQuizzesMetadata()
	if err != nil {
		return err
	}
	if !replaceQuizEntry(entries, BuildQuizMetadata(quiz, questionCount)) {
		entries = append(entries, BuildQuizMetadata(quiz, questionCount))
	}
	if err := course.EncodeQuizzesMetadata(entries); err != nil {
		return err
	}
	return tx.Model(&course).Updates(map[string]any{
		"quizzes_metadata": course.QuizzesMetadata,
		"total_quizzes":    course.TotalQuizzes,
	}).Error
}
