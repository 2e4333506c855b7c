package controllers

import (
	"errors"

	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a store failure and surfaces as 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAttemptNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMaxAttemptsExceeded):
		return utils.Forbidden(c, "No attempts left")
	case errors.Is(err, services.ErrQuizNotPublished):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotAttemptOwner):
		return utils.Forbidden(c, "Not your attempt")
	case errors.Is(err, services.ErrAttemptSubmitted):
		return utils.Conflict(c, err.Error())
	default:
		return utils.InternalServerError(c, "Could not query database")
	}
}
