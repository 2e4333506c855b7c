package services

import (
	"errors"

	"learnhub/backend/models"

	"gorm.io/gorm"
)

// LessonService owns every lesson write. Each mutation keeps the parent
// course's lessons metadata and count consistent inside one transaction:
// either the lesson row and the course summary both change, or neither
// does. Concurrent instructors racing on the same course resolve as
// last-commit-wins; the transaction only guarantees no partial state.
type LessonService struct {
	DB *gorm.DB
}

func NewLessonService(db *gorm.DB) *LessonService {
	return &LessonService{DB: db}
}

// CreateLesson inserts the lesson at the end of the course's sequence and
// appends its projection to the course metadata.
func (s *LessonService) CreateLesson(courseID uint, lesson *models.Lesson) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		entries, err := course.DecodeLessonsMetadata()
		if err != nil {
			return err
		}

		lesson.CourseID = courseID
		lesson.SequenceOrder = len(entries) + 1
		if lesson.ContentType == "" {
			lesson.ContentType = "text"
		}
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}

		entries = append(entries, BuildLessonMetadata(lesson, lesson.SequenceOrder))
		if err := course.EncodeLessonsMetadata(entries); err != nil {
			return err
		}
		return tx.Model(&course).Updates(map[string]any{
			"lessons_metadata": course.LessonsMetadata,
			"total_lessons":    course.TotalLessons,
		}).Error
	})
}

// UpdateLesson applies the partial update. When no projected field is
// touched only the lesson row is written; otherwise the course's metadata
// entry is replaced in place within the same transaction.
func (s *LessonService) UpdateLesson(lessonID uint, update LessonUpdate) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	update.Apply(&lesson)

	if !update.TouchesProjection() {
		if err := s.DB.Save(&lesson).Error; err != nil {
			return nil, err
		}
		return &lesson, nil
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&lesson).Error; err != nil {
			return err
		}
		return s.refreshLessonEntry(tx, &lesson)
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson removes the lesson row and its metadata entry, then
// renumbers the remaining lessons and entries to a contiguous 1-based
// sequence. The renumbering is mandatory so order stays gapless after
// deletions. Quizzes attached to the lesson are deleted in the same
// transaction, with their questions, attempts and metadata entries, so
// no quiz ever references a missing lesson.
func (s *LessonService) DeleteLesson(lessonID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		var course models.Course
		if err := tx.First(&course, lesson.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var quizzes []models.Quiz
		if err := tx.Where("lesson_id = ?", lessonID).Find(&quizzes).Error; err != nil {
			return err
		}
		quizEntries, err := course.DecodeQuizzesMetadata()
		if err != nil {
			return err
		}
		for _, quiz := range quizzes {
			if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).
				Delete(&models.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).
				Delete(&models.QuizAttempt{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&quiz).Error; err != nil {
				return err
			}
			quizEntries = removeQuizEntry(quizEntries, quiz.ID)
		}
		if err := course.EncodeQuizzesMetadata(quizEntries); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&lesson).Error; err != nil {
			return err
		}

		var remaining []models.Lesson
		if err := tx.Where("course_id = ?", course.ID).
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

		entries, err := course.DecodeLessonsMetadata()
		if err != nil {
			return err
		}
		if err := course.EncodeLessonsMetadata(removeLessonEntry(entries, lessonID)); err != nil {
			return err
		}
		return tx.Model(&course).Updates(map[string]any{
			"lessons_metadata": course.LessonsMetadata,
			"total_lessons":    course.TotalLessons,
			"quizzes_metadata": course.QuizzesMetadata,
			"total_quizzes":    course.TotalQuizzes,
		}).Error
	})
}

// ReorderLessons takes the full ordered lesson id list for a course and
// rewrites every lesson's sequence order plus the entire course metadata
// array in one transaction. Two concurrent reorders are not merged:
// whichever commits last wins outright.
func (s *LessonService) ReorderLessons(courseID uint, orderedIDs []uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		entries := make([]models.LessonMetadata, 0, len(orderedIDs))
		for i, lessonID := range orderedIDs {
			var lesson models.Lesson
			if err := tx.Where("id = ? AND course_id = ?", lessonID, courseID).
				First(&lesson).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLessonNotFound
				}
				return err
			}
			if lesson.SequenceOrder != i+1 {
				if err := tx.Model(&lesson).Update("sequence_order", i+1).Error; err != nil {
					return err
				}
			}
			entries = append(entries, BuildLessonMetadata(&lesson, i+1))
		}

		if err := course.EncodeLessonsMetadata(entries); err != nil {
			return err
		}
		return tx.Model(&course).Updates(map[string]any{
			"lessons_metadata": course.LessonsMetadata,
			"total_lessons":    course.TotalLessons,
		}).Error
	})
}

// GetLesson loads a single lesson.
func (s *LessonService) GetLesson(lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// refreshLessonEntry rebuilds the course metadata entry for the lesson,
// keeping its current position and order value.
func (s *LessonService) refreshLessonEntry(tx *gorm.DB, lesson *models.Lesson) error {
	var course models.Course
	if err := tx.First(&course, lesson.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	entries, err := course.DecodeLessonsMetadata()
	if err != nil {
		return err
	}
	if !replaceLessonEntry(entries, BuildLessonMetadata(lesson, lesson.SequenceOrder)) {
		entries = append(entries, BuildLessonMetadata(lesson, lesson.SequenceOrder))
	}
	if err := course.EncodeLessonsMetadata(entries); err != nil {
		return err
	}
	return tx.Model(&course).Updates(map[string]any{
		"lessons_metadata": course.LessonsMetadata,
		"total_lessons":    course.TotalLessons,
	}).Error
}
