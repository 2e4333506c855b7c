package services

import (
	"errors"
	"log"
	"time"

	"learnhub/backend/models"

	"gorm.io/gorm"
)

// ActivityService records user activity and daily streaks. All of its
// writes are best-effort: failures are logged and never propagated, so a
// broken activity table can never fail a grading or sync operation. This
// is the one place in the services package where errors are swallowed.
type ActivityService struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewActivityService(db *gorm.DB, logger *log.Logger) *ActivityService {
	return &ActivityService{DB: db, Logger: logger}
}

// RecordActivity appends an activity row. Best-effort, log-only.
func (s *ActivityService) RecordActivity(userID uint, actionType string, targetID uint, targetTitle string, duration float64) {
	activity := models.UserActivity{
		UserID:      userID,
		ActionType:  actionType,
		TargetID:    targetID,
		TargetTitle: targetTitle,
		Duration:    duration,
	}
	if err := s.DB.Create(&activity).Error; err != nil {
		s.Logger.Printf("activity record failed for user %d: %v", userID, err)
	}
}

// TouchStreak extends or resets the user's daily streak. Best-effort,
// log-only.
func (s *ActivityService) TouchStreak(userID uint) {
	var progress models.UserProgress
	err := s.DB.Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.UserProgress{UserID: userID, LastActive: time.Now(), StreakDays: 1}
		if err := s.DB.Create(&progress).Error; err != nil {
			s.Logger.Printf("streak create failed for user %d: %v", userID, err)
		}
		return
	}
	if err != nil {
		s.Logger.Printf("streak lookup failed for user %d: %v", userID, err)
		return
	}

	if time.Since(progress.LastActive) < 48*time.Hour {
		if !sameDay(progress.LastActive, time.Now()) {
			progress.StreakDays++
		}
	} else {
		progress.StreakDays = 1
	}
	progress.LastActive = time.Now()
	if err := s.DB.Save(&progress).Error; err != nil {
		s.Logger.Printf("streak update failed for user %d: %v", userID, err)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
