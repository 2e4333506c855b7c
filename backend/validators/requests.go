package validators

// Request bodies validated before any write.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	ShortDesc   string `json:"short_desc"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Topic       string `json:"topic"`
	University  string `json:"university"`
	LogoURL     string `json:"logo_url"`
}

type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=text video"`
	Duration    int    `json:"duration" validate:"gte=0"`
	IsRequired  *bool  `json:"is_required"`
}

type CreateQuizRequest struct {
	LessonID     uint    `json:"lesson_id" validate:"required"`
	Title        string  `json:"title" validate:"required,min=3"`
	PassingScore float64 `json:"passing_score" validate:"gte=0,lte=100"`
	TimeLimit    int     `json:"time_limit" validate:"gte=0"`
	MaxAttempts  int     `json:"max_attempts" validate:"gte=0"`
}

type AddQuestionRequest struct {
	Kind              string   `json:"kind" validate:"required,oneof=multiple_choice true_false multiple_select short_answer fill_blank essay"`
	Prompt            string   `json:"prompt" validate:"required"`
	Points            float64  `json:"points" validate:"gte=0"`
	Options           []Option `json:"options" validate:"dive"`
	CorrectOption     string   `json:"correct_option"`
	CorrectOptions    []string `json:"correct_options"`
	CorrectText       string   `json:"correct_text"`
	AcceptableAnswers []string `json:"acceptable_answers"`
	CaseSensitive     bool     `json:"case_sensitive"`
}

type Option struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text"`
}

type ReorderRequest struct {
	OrderedIDs []uint `json:"ordered_ids" validate:"required,min=1"`
}

type SaveAnswerRequest struct {
	QuestionID uint        `json:"question_id" validate:"required"`
	Value      interface{} `json:"value"`
}

type SubmitAttemptRequest struct {
	TimeSpent int `json:"time_spent" validate:"gte=0"`
}
