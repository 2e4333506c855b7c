package controllers

import (
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
	"learnhub/backend/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttemptsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Attempts *services.AttemptService
	Activity *services.ActivityService
}

func NewAttemptsController(db *gorm.DB, cfg *config.Config, activity *services.ActivityService) *AttemptsController {
	return &AttemptsController{
		DB:       db,
		Cfg:      cfg,
		Attempts: services.NewAttemptService(db),
		Activity: activity,
	}
}

func (ac *AttemptsController) StartAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	attempt, err := ac.Attempts.StartAttempt(userID, uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}

	ac.Activity.RecordActivity(userID, "quiz_start", attempt.QuizID, "", 0)

	return utils.Created(c, fiber.Map{"attempt": attempt})
}

func (ac *AttemptsController) SaveAnswer(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attemptID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid attempt ID")
	}

	var input validators.SaveAnswerRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := ac.Attempts.SaveAnswer(userID, uint(attemptID), input.QuestionID, input.Value); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Answer saved"})
}

func (ac *AttemptsController) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attemptID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid attempt ID")
	}

	var input validators.SubmitAttemptRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	attempt, err := ac.Attempts.SubmitAttempt(userID, uint(attemptID), input.TimeSpent)
	if err != nil {
		return serviceError(c, err)
	}

	ac.Activity.RecordActivity(userID, "quiz_complete", attempt.QuizID, "", float64(attempt.TimeSpent))
	ac.Activity.TouchStreak(userID)

	answers, _ := attempt.DecodeAnswers()
	return c.JSON(fiber.Map{
		"attempt": attempt,
		"result": fiber.Map{
			"score":         attempt.Score,
			"points_earned": attempt.PointsEarned,
			"total_points":  attempt.TotalPoints,
			"is_passed":     attempt.IsPassed,
			"answers":       answers,
		},
	})
}

func (ac *AttemptsController) GetAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attemptID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid attempt ID")
	}

	attempt, err := ac.Attempts.GetAttempt(uint(attemptID))
	if err != nil {
		return serviceError(c, err)
	}
	if attempt.UserID != userID {
		return utils.Forbidden(c, "Not your attempt")
	}

	return c.JSON(fiber.Map{"attempt": attempt})
}

func (ac *AttemptsController) ListAttempts(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	attempts, err := ac.Attempts.ListAttempts(userID, uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}

	return c.JSON(fiber.Map{"attempts": attempts})
}

func (ac *AttemptsController) GetBestAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	best, err := ac.Attempts.BestAttempt(userID, uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"attempt": best})
}
