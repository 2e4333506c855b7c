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

type LessonsController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Lessons *services.LessonService
}

func NewLessonsController(db *gorm.DB, cfg *config.Config) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg, Lessons: services.NewLessonService(db)}
}

func (lc *LessonsController) AddLesson(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input validators.CreateLessonRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	lesson := models.Lesson{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		ContentType: input.ContentType,
		Duration:    input.Duration,
		IsRequired:  true,
	}
	if input.IsRequired != nil {
		lesson.IsRequired = *input.IsRequired
	}

	if err := lc.Lessons.CreateLesson(uint(courseID), &lesson); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  lesson,
	})
}

func (lc *LessonsController) GetLesson(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, err := lc.Lessons.GetLesson(uint(lessonID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"lesson": lesson})
}

func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Content     *string `json:"content"`
		ContentType *string `json:"content_type"`
		Duration    *int    `json:"duration"`
		IsRequired  *bool   `json:"is_required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	lesson, err := lc.Lessons.UpdateLesson(uint(lessonID), services.LessonUpdate{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		ContentType: input.ContentType,
		Duration:    input.Duration,
		IsRequired:  input.IsRequired,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Lesson updated",
		"lesson":  lesson,
	})
}

func (lc *LessonsController) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	if err := lc.Lessons.DeleteLesson(uint(lessonID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Lesson deleted"})
}

func (lc *LessonsController) ReorderLessons(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input validators.ReorderRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := lc.Lessons.ReorderLessons(uint(courseID), input.OrderedIDs); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Lessons reordered"})
}
