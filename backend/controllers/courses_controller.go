package controllers

import (
	"errors"
	"strconv"
	"time"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
	"learnhub/backend/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *services.ActivityService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, activity *services.ActivityService) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Activity: activity}
}

func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var courses []models.Course
	cc.DB.Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ? AND enrollments.deleted_at IS NULL", userID).
		Find(&courses)

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var progress models.UserCourseProgress
		cc.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&progress)

		result = append(result, fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"progress":      progress.CompletionRate,
			"lessons":       course.TotalLessons,
			"quizzes":       course.TotalQuizzes,
			"completed":     progress.LessonsCompleted,
			"hours_spent":   progress.HoursSpent,
			"last_accessed": progress.LastAccessed,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetAvailableCourses(c *fiber.Ctx) error {
	topic := c.Query("topic")
	university := c.Query("university")

	query := cc.DB.Model(&models.Course{}).Where("is_published = ?", true)
	if topic != "" {
		query = query.Where("topic LIKE ?", "%"+topic+"%")
	}
	if university != "" {
		query = query.Where("university LIKE ?", "%"+university+"%")
	}

	var courses []models.Course
	query.Find(&courses)

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.ShortDesc,
			"difficulty":  course.Difficulty,
			"university":  course.University,
			"topic":       course.Topic,
			"author":      course.AuthorID,
			"logo_url":    course.LogoURL,
			"lessons":     course.TotalLessons,
			"quizzes":     course.TotalQuizzes,
		})
	}

	return c.JSON(result)
}

// GetCourseDetails serves the course overview from the denormalized
// metadata arrays alone; the lesson and quiz tables are not queried.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	lessons, err := course.DecodeLessonsMetadata()
	if err != nil {
		return utils.InternalServerError(c, "Could not decode course metadata")
	}
	quizzes, err := course.DecodeQuizzesMetadata()
	if err != nil {
		return utils.InternalServerError(c, "Could not decode course metadata")
	}

	var progress models.UserCourseProgress
	cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress)

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"description":   course.Description,
			"short_desc":    course.ShortDesc,
			"difficulty":    course.Difficulty,
			"university":    course.University,
			"topic":         course.Topic,
			"logo_url":      course.LogoURL,
			"author":        course.AuthorID,
			"is_published":  course.IsPublished,
			"lessons":       lessons,
			"quizzes":       quizzes,
			"total_lessons": course.TotalLessons,
			"total_quizzes": course.TotalQuizzes,
		},
		"progress": progress,
	})
}

func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var existing models.Enrollment
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&existing).Error; err == nil {
		return utils.Conflict(c, "Already enrolled")
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: uint(courseID)}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not enroll")
	}

	cc.Activity.RecordActivity(userID, "course_start", course.ID, course.Title, 0)

	return utils.Created(c, fiber.Map{"enrollment": enrollment})
}

// UpdateCourseProgress recomputes the completion rate from the course's
// denormalized lesson count.
func (cc *CoursesController) UpdateCourseProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		LessonID      uint    `json:"lesson_id"`
		HoursSpent    float64 `json:"hours_spent"`
		MarkCompleted bool    `json:"mark_completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progress models.UserCourseProgress
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.UserCourseProgress{UserID: userID, CourseID: uint(courseID)}
		} else {
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	if input.MarkCompleted {
		progress.LessonsCompleted++
	}
	progress.HoursSpent += input.HoursSpent
	if course.TotalLessons > 0 {
		progress.CompletionRate = float64(progress.LessonsCompleted) / float64(course.TotalLessons) * 100
	}
	progress.LastAccessed = time.Now().Format(time.RFC3339)

	if err := cc.DB.Save(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	if progress.CompletionRate >= 100 {
		cc.Activity.RecordActivity(userID, "course_complete", course.ID, course.Title, progress.HoursSpent)
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated",
		"progress": progress,
	})
}

func (cc *CoursesController) GetCourseAnalytics(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var progresses []models.UserCourseProgress
	if err := cc.DB.Where("course_id = ?", courseID).Find(&progresses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	users := make([]fiber.Map, 0, len(progresses))
	for _, progress := range progresses {
		var user models.User
		if err := cc.DB.First(&user, progress.UserID).Error; err != nil {
			continue
		}
		users = append(users, fiber.Map{
			"user_id":           user.ID,
			"username":          user.Username,
			"lessons_completed": progress.LessonsCompleted,
			"hours_spent":       progress.HoursSpent,
			"completion_rate":   progress.CompletionRate,
		})
	}

	return c.JSON(fiber.Map{"analytics": users})
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input validators.CreateCourseRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := validators.Check(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	course := models.Course{
		Title:           input.Title,
		ShortDesc:       input.ShortDesc,
		Description:     input.Description,
		Difficulty:      input.Difficulty,
		Topic:           input.Topic,
		University:      input.University,
		LogoURL:         input.LogoURL,
		AuthorID:        userID,
		LessonsMetadata: "[]",
		QuizzesMetadata: "[]",
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Title       string `json:"title"`
		ShortDesc   string `json:"short_desc"`
		Description string `json:"description"`
		Difficulty  string `json:"difficulty"`
		University  string `json:"university"`
		Topic       string `json:"topic"`
		LogoURL     string `json:"logo_url"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.ShortDesc != "" {
		course.ShortDesc = input.ShortDesc
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Difficulty != "" {
		course.Difficulty = input.Difficulty
	}
	if input.University != "" {
		course.University = input.University
	}
	if input.Topic != "" {
		course.Topic = input.Topic
	}
	if input.LogoURL != "" {
		course.LogoURL = input.LogoURL
	}
	if input.IsPublished != nil {
		course.IsPublished = *input.IsPublished
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}
