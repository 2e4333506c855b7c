package services

import (
	"sort"
	"strconv"
	"strings"

	"learnhub/backend/models"
)

// IsAnswerCorrect reports whether rawValue is a correct response to the
// question. It is a pure function of the question definition and the raw
// value; a nil value is always incorrect. rawValue carries whatever the
// JSON decoder produced: string, float64, bool, []any or nil.
func IsAnswerCorrect(question *models.Question, rawValue any) bool {
	if rawValue == nil {
		return false
	}

	switch question.Kind {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse:
		return answerToString(rawValue) == question.CorrectOption

	case models.QuestionMultipleSelect:
		submitted, ok := toStringSlice(rawValue)
		if !ok {
			return false
		}
		correct, err := question.DecodeCorrectOptions()
		if err != nil {
			return false
		}
		return sameSet(submitted, correct)

	case models.QuestionShortAnswer:
		submitted, ok := rawValue.(string)
		if !ok {
			return false
		}
		if textMatches(submitted, question.CorrectText, question.CaseSensitive) {
			return true
		}
		acceptable, err := question.DecodeAcceptableAnswers()
		if err != nil {
			return false
		}
		for _, alt := range acceptable {
			if textMatches(submitted, alt, question.CaseSensitive) {
				return true
			}
		}
		return false

	case models.QuestionFillBlank:
		return textMatches(answerToString(rawValue), question.CorrectText, question.CaseSensitive)

	default:
		// essay and unknown kinds are never auto-graded
		return false
	}
}

// GradeAnswer rebuilds the answer with its graded fields filled in. The
// points-possible field is set even for unanswered or incorrect answers.
func GradeAnswer(question *models.Question, answer models.Answer) models.Answer {
	answer.Kind = question.Kind
	answer.PointsPossible = question.Points
	if IsAnswerCorrect(question, answer.Value) {
		answer.IsCorrect = true
		answer.PointsEarned = question.Points
	} else {
		answer.IsCorrect = false
		answer.PointsEarned = 0
	}
	return answer
}

// AttemptResult is the aggregate outcome of grading one attempt.
type AttemptResult struct {
	Score        float64
	PointsEarned float64
	IsPassed     bool
}

// ScoreAttempt computes the aggregate score over graded answers. The
// denominator is the quiz's full question count, so an unanswered
// question counts against the learner. A quiz with zero questions scores
// zero. Passing is inclusive of the threshold.
func ScoreAttempt(quiz *models.Quiz, graded []models.Answer) AttemptResult {
	var result AttemptResult

	correct := 0
	for _, answer := range graded {
		if answer.IsCorrect {
			correct++
		}
		result.PointsEarned += answer.PointsEarned
	}

	if len(quiz.Questions) > 0 {
		result.Score = float64(correct) / float64(len(quiz.Questions)) * 100
	}
	result.IsPassed = result.Score >= quiz.PassingScore
	return result
}

func textMatches(submitted, correct string, caseSensitive bool) bool {
	if caseSensitive {
		return submitted == correct
	}
	return strings.EqualFold(submitted, correct)
}

// answerToString normalizes a JSON-decoded scalar for comparison against
// a stored option id or blank value. Booleans grade identically whether
// submitted as true or "true".
func answerToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			ids = append(ids, s)
		}
		return ids, true
	default:
		return nil, false
	}
}

// sameSet compares two id lists order-independently. Any missing, extra
// or wrong id is a mismatch.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
