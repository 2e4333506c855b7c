package controllers

import (
	"encoding/json"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
	"learnhub/backend/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizzesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Quizzes  *services.QuizService
	Attempts *services.AttemptService
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config) *QuizzesController {
	return &QuizzesController{
		DB:       db,
		Cfg:      cfg,
		Quizzes:  services.NewQuizService(db),
		Attempts: services.NewAttemptService(db),
	}
}

func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input validators.CreateQuizRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	quiz := models.Quiz{
		Title:        input.Title,
		PassingScore: input.PassingScore,
		TimeLimit:    input.TimeLimit,
		MaxAttempts:  input.MaxAttempts,
	}
	if err := qc.Quizzes.CreateQuiz(uint(courseID), input.LessonID, &quiz); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    quiz,
	})
}

// GetQuiz serves the learner view: correct answers are stripped from
// every question.
func (qc *QuizzesController) GetQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	quiz, err := qc.Quizzes.GetQuiz(uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}

	questions := make([]fiber.Map, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		var options []models.QuestionOption
		if q.Options != "" {
			json.Unmarshal([]byte(q.Options), &options)
		}
		questions = append(questions, fiber.Map{
			"id":      q.ID,
			"kind":    q.Kind,
			"prompt":  q.Prompt,
			"points":  q.Points,
			"order":   q.SequenceOrder,
			"options": options,
		})
	}

	return c.JSON(fiber.Map{
		"quiz": fiber.Map{
			"id":            quiz.ID,
			"course_id":     quiz.CourseID,
			"lesson_id":     quiz.LessonID,
			"title":         quiz.Title,
			"passing_score": quiz.PassingScore,
			"time_limit":    quiz.TimeLimit,
			"max_attempts":  quiz.MaxAttempts,
			"is_published":  quiz.IsPublished,
			"questions":     questions,
		},
	})
}

func (qc *QuizzesController) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input struct {
		Title        *string  `json:"title"`
		PassingScore *float64 `json:"passing_score"`
		TimeLimit    *int     `json:"time_limit"`
		MaxAttempts  *int     `json:"max_attempts"`
		IsPublished  *bool    `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	quiz, err := qc.Quizzes.UpdateQuiz(uint(quizID), services.QuizUpdate{
		Title:        input.Title,
		PassingScore: input.PassingScore,
		TimeLimit:    input.TimeLimit,
		MaxAttempts:  input.MaxAttempts,
		IsPublished:  input.IsPublished,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz updated",
		"quiz":    quiz,
	})
}

func (qc *QuizzesController) DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	if err := qc.Quizzes.DeleteQuiz(uint(quizID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Quiz deleted"})
}

func (qc *QuizzesController) AddQuestion(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input validators.AddQuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	question, err := buildQuestion(input)
	if err != nil {
		return utils.InternalServerError(c, "Could not encode question")
	}
	if err := qc.Quizzes.AddQuestion(uint(quizID), question); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Question added",
		"question": question,
	})
}

func (qc *QuizzesController) UpdateQuestion(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var input struct {
		Prompt            *string                  `json:"prompt"`
		Points            *float64                 `json:"points"`
		Options           *[]models.QuestionOption `json:"options"`
		CorrectOption     *string                  `json:"correct_option"`
		CorrectOptions    *[]string                `json:"correct_options"`
		CorrectText       *string                  `json:"correct_text"`
		AcceptableAnswers *[]string                `json:"acceptable_answers"`
		CaseSensitive     *bool                    `json:"case_sensitive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	question, err := qc.Quizzes.UpdateQuestion(uint(quizID), uint(questionID), func(q *models.Question) {
		if input.Prompt != nil {
			q.Prompt = *input.Prompt
		}
		if input.Points != nil {
			q.Points = *input.Points
		}
		if input.Options != nil {
			data, _ := json.Marshal(*input.Options)
			q.Options = string(data)
		}
		if input.CorrectOption != nil {
			q.CorrectOption = *input.CorrectOption
		}
		if input.CorrectOptions != nil {
			data, _ := json.Marshal(*input.CorrectOptions)
			q.CorrectOptions = string(data)
		}
		if input.CorrectText != nil {
			q.CorrectText = *input.CorrectText
		}
		if input.AcceptableAnswers != nil {
			data, _ := json.Marshal(*input.AcceptableAnswers)
			q.AcceptableAnswers = string(data)
		}
		if input.CaseSensitive != nil {
			q.CaseSensitive = *input.CaseSensitive
		}
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Question updated",
		"question": question,
	})
}

func (qc *QuizzesController) DeleteQuestion(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	if err := qc.Quizzes.DeleteQuestion(uint(quizID), uint(questionID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Question deleted"})
}

func (qc *QuizzesController) GetQuizStatistics(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	if _, err := qc.Quizzes.GetQuiz(uint(quizID)); err != nil {
		return serviceError(c, err)
	}

	stats, err := qc.Attempts.Statistics(uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"statistics": stats})
}

func buildQuestion(input validators.AddQuestionRequest) (*models.Question, error) {
	question := models.Question{
		Kind:          input.Kind,
		Prompt:        input.Prompt,
		Points:        input.Points,
		CorrectOption: input.CorrectOption,
		CorrectText:   input.CorrectText,
		CaseSensitive: input.CaseSensitive,
	}
	if len(input.Options) > 0 {
		data, err := json.Marshal(input.Options)
		if err != nil {
			return nil, err
		}
		question.Options = string(data)
	}
	if len(input.CorrectOptions) > 0 {
		data, err := json.Marshal(input.CorrectOptions)
		if err != nil {
			return nil, err
		}
		question.CorrectOptions = string(data)
	}
	if len(input.AcceptableAnswers) > 0 {
		data, err := json.Marshal(input.AcceptableAnswers)
		if err != nil {
			return nil, err
		}
		question.AcceptableAnswers = string(data)
	}
	return &question, nil
}
