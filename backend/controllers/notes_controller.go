package controllers

import (
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewNotesController(db *gorm.DB, cfg *config.Config) *NotesController {
	return &NotesController{DB: db, Cfg: cfg}
}

func (nc *NotesController) AddNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Text == "" {
		return utils.BadRequest(c, "Note text is required")
	}

	var lesson models.Lesson
	if err := nc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	note := models.LessonNote{
		UserID:   userID,
		CourseID: lesson.CourseID,
		LessonID: lesson.ID,
		Text:     input.Text,
	}
	if err := nc.DB.Create(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not create note")
	}

	return utils.Created(c, fiber.Map{"note": note})
}

func (nc *NotesController) GetNotes(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var notes []models.LessonNote
	if err := nc.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("created_at").Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"notes": notes})
}

func (nc *NotesController) DeleteNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	noteID, err := strconv.Atoi(c.Params("noteId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	var note models.LessonNote
	if err := nc.DB.Where("id = ? AND user_id = ?", noteID, userID).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Note not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := nc.DB.Delete(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete note")
	}
	return c.JSON(fiber.Map{"message": "Note deleted"})
}

func (nc *NotesController) AddBookmark(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Title    string `json:"title"`
		Position int    `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var lesson models.Lesson
	if err := nc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	bookmark := models.LessonBookmark{
		UserID:   userID,
		CourseID: lesson.CourseID,
		LessonID: lesson.ID,
		Title:    input.Title,
		Position: input.Position,
	}
	if err := nc.DB.Create(&bookmark).Error; err != nil {
		return utils.InternalServerError(c, "Could not create bookmark")
	}

	return utils.Created(c, fiber.Map{"bookmark": bookmark})
}

func (nc *NotesController) GetBookmarks(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var bookmarks []models.LessonBookmark
	query := nc.DB.Where("user_id = ?", userID)
	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if err := query.Order("created_at").Find(&bookmarks).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"bookmarks": bookmarks})
}

func (nc *NotesController) DeleteBookmark(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	bookmarkID, err := strconv.Atoi(c.Params("bookmarkId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid bookmark ID")
	}

	var bookmark models.LessonBookmark
	if err := nc.DB.Where("id = ? AND user_id = ?", bookmarkID, userID).
		First(&bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Bookmark not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := nc.DB.Delete(&bookmark).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete bookmark")
	}
	return c.JSON(fiber.Map{"message": "Bookmark deleted"})
}
