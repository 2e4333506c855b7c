package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Question kinds. Essay questions carry no machine-checkable answer and
// are never auto-graded.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionMultipleSelect = "multiple_select"
	QuestionShortAnswer    = "short_answer"
	QuestionFillBlank      = "fill_blank"
	QuestionEssay          = "essay"
)

// Attempt lifecycle. The only transition is in_progress -> submitted;
// a submitted attempt is immutable.
const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted"
)

type Quiz struct {
	gorm.Model
	CourseID     uint
	LessonID     uint
	Title        string
	PassingScore float64 `gorm:"default:70"` // percent, 0-100
	TimeLimit    int     // minutes, 0 = none
	MaxAttempts  int     // 0 = unlimited
	IsPublished  bool    `gorm:"default:false"`
	Questions    []Question
}

type Question struct {
	gorm.Model
	QuizID        uint
	Kind          string
	Prompt        string
	Points        float64 `gorm:"default:1"`
	SequenceOrder int

	Options           string // JSON array of {id, text} options
	CorrectOption     string // option id, single-answer kinds
	CorrectOptions    string // JSON array of option ids, multiple_select
	CorrectText       string // text kinds
	AcceptableAnswers string // JSON array of alternate strings, short_answer
	CaseSensitive     bool   `gorm:"default:false"`
}

// QuestionOption is one element of Question.Options.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (q *Question) DecodeCorrectOptions() ([]string, error) {
	var ids []string
	if q.CorrectOptions == "" {
		return ids, nil
	}
	err := json.Unmarshal([]byte(q.CorrectOptions), &ids)
	return ids, err
}

func (q *Question) DecodeAcceptableAnswers() ([]string, error) {
	var answers []string
	if q.AcceptableAnswers == "" {
		return answers, nil
	}
	err := json.Unmarshal([]byte(q.AcceptableAnswers), &answers)
	return answers, err
}

type QuizAttempt struct {
	gorm.Model
	UserID        uint `gorm:"index:idx_attempt_user_quiz"`
	QuizID        uint `gorm:"index:idx_attempt_user_quiz"`
	CourseID      uint
	LessonID      uint
	AttemptNumber int
	Status        string `gorm:"default:in_progress"`
	Answers       string `gorm:"type:text;default:'[]'"` // JSON array of Answer
	Score         float64
	PointsEarned  float64
	TotalPoints   float64
	IsPassed      bool
	StartedAt     time.Time
	SubmittedAt   *time.Time
	TimeSpent     int // seconds, as reported by the caller on submit
}

// Answer is one learner response within an attempt, stored inside the
// attempt's Answers JSON column. Before submission IsCorrect and the
// point fields are placeholders; grading happens at submit time only.
type Answer struct {
	QuestionID     uint    `json:"question_id"`
	Value          any     `json:"value"` // string | number | []string | bool | null
	Kind           string  `json:"kind"`
	IsCorrect      bool    `json:"is_correct"`
	PointsEarned   float64 `json:"points_earned"`
	PointsPossible float64 `json:"points_possible"`
}

func (a *QuizAttempt) DecodeAnswers() ([]Answer, error) {
	var answers []Answer
	if a.Answers == "" {
		return answers, nil
	}
	err := json.Unmarshal([]byte(a.Answers), &answers)
	return answers, err
}

func (a *QuizAttempt) EncodeAnswers(answers []Answer) error {
	if answers == nil {
		answers = []Answer{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	a.Answers = string(data)
	return nil
}

// TotalPossiblePoints is the sum of the quiz's question point values.
func (q *Quiz) TotalPossiblePoints() float64 {
	var total float64
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}
