package services

import (
	"learnhub/backend/models"
)

// Difficulty buckets derived from the mean score over submitted attempts.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type QuizStatistics struct {
	TotalAttempts       int     `json:"total_attempts"`
	UniqueUsers         int     `json:"unique_users"`
	AverageScore        float64 `json:"average_score"`
	HighestScore        float64 `json:"highest_score"`
	LowestScore         float64 `json:"lowest_score"`
	PassRate            float64 `json:"pass_rate"`
	AverageTimeSpent    float64 `json:"average_time_spent"`
	EstimatedDifficulty string  `json:"estimated_difficulty"`
}

// ComputeStatistics aggregates submitted attempts. Zero attempts yields
// all-zero statistics with difficulty pinned to medium so downstream
// consumers never branch on missing data.
func ComputeStatistics(attempts []models.QuizAttempt) QuizStatistics {
	if len(attempts) == 0 {
		return QuizStatistics{EstimatedDifficulty: DifficultyMedium}
	}

	stats := QuizStatistics{
		TotalAttempts: len(attempts),
		LowestScore:   attempts[0].Score,
	}

	users := make(map[uint]struct{})
	passed := 0
	var scoreSum, timeSum float64
	for _, attempt := range attempts {
		users[attempt.UserID] = struct{}{}
		scoreSum += attempt.Score
		timeSum += float64(attempt.TimeSpent)
		if attempt.IsPassed {
			passed++
		}
		if attempt.Score > stats.HighestScore {
			stats.HighestScore = attempt.Score
		}
		if attempt.Score < stats.LowestScore {
			stats.LowestScore = attempt.Score
		}
	}

	stats.UniqueUsers = len(users)
	stats.AverageScore = scoreSum / float64(len(attempts))
	stats.AverageTimeSpent = timeSum / float64(len(attempts))
	stats.PassRate = float64(passed) / float64(len(attempts)) * 100

	switch {
	case stats.AverageScore >= 80:
		stats.EstimatedDifficulty = DifficultyEasy
	case stats.AverageScore >= 60:
		stats.EstimatedDifficulty = DifficultyMedium
	default:
		stats.EstimatedDifficulty = DifficultyHard
	}
	return stats
}

// Statistics loads every submitted attempt for the quiz and aggregates
// them.
func (s *AttemptService) Statistics(quizID uint) (QuizStatistics, error) {
	var attempts []models.QuizAttempt
	if err := s.DB.Where("quiz_id = ? AND status = ?", quizID, models.AttemptSubmitted).
		Find(&attempts).Error; err != nil {
		return QuizStatistics{}, err
	}
	return ComputeStatistics(attempts), nil
}
