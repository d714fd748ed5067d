package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/service"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/httputil"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/validator"
)

// CourseHandler handles HTTP requests for the course catalog, course
// content, and course discussion.
type CourseHandler struct {
	service *service.CourseService
	logger  *slog.Logger
}

// NewCourseHandler creates a new course HTTP handler.
func NewCourseHandler(svc *service.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{service: svc, logger: logger}
}

// SectionRequest is one content unit inside a course create or update body.
type SectionRequest struct {
	Title         string        `json:"title" validate:"required"`
	Description   string        `json:"description"`
	VideoURL      string        `json:"video_url"`
	VideoSection  string        `json:"video_section"`
	VideoDuration int           `json:"video_duration" validate:"gte=0"`
	VideoPlayer   string        `json:"video_player"`
	Links         []domain.Link `json:"links"`
	Suggestion    string        `json:"suggestion"`
}

// CourseRequest is the JSON request body for creating or replacing a course.
type CourseRequest struct {
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	Description    string           `json:"description" validate:"required"`
	Price          float64          `json:"price" validate:"gte=0"`
	EstimatedPrice float64          `json:"estimated_price" validate:"gte=0"`
	Thumbnail      *domain.Image    `json:"thumbnail"`
	Tags           string           `json:"tags"`
	Level          string           `json:"level"`
	DemoURL        string           `json:"demo_url"`
	Benefits       []domain.Benefit `json:"benefits"`
	Prerequisites  []domain.Benefit `json:"prerequisites"`
	Sections       []SectionRequest `json:"sections"`
}

// AddQuestionRequest is the JSON request body for posting a question.
type AddQuestionRequest struct {
	SectionID string `json:"section_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

// AddAnswerRequest is the JSON request body for replying to a question.
type AddAnswerRequest struct {
	SectionID  string `json:"section_id" validate:"required"`
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

// AddReviewRequest is the JSON request body for reviewing a course.
type AddReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"required"`
}

// AddReviewReplyRequest is the JSON request body for an admin reply to a review.
type AddReviewReplyRequest struct {
	ReviewID string `json:"review_id" validate:"required"`
	Comment  string `json:"comment" validate:"required"`
}

func (req *CourseRequest) toCourse() *domain.Course {
	sections := make([]domain.Section, len(req.Sections))
	for i, s := range req.Sections {
		sections[i] = domain.Section{
			Title:         s.Title,
			Description:   s.Description,
			VideoURL:      s.VideoURL,
			VideoSection:  s.VideoSection,
			VideoDuration: s.VideoDuration,
			VideoPlayer:   s.VideoPlayer,
			Links:         s.Links,
			Suggestion:    s.Suggestion,
		}
	}

	return &domain.Course{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		EstimatedPrice: req.EstimatedPrice,
		Thumbnail:      req.Thumbnail,
		Tags:           req.Tags,
		Level:          req.Level,
		DemoURL:        req.DemoURL,
		Benefits:       req.Benefits,
		Prerequisites:  req.Prerequisites,
		Sections:       sections,
	}
}

// Get handles GET /api/v1/courses/{courseID}. The response is sanitized for
// public consumption.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.service.GetSanitized(r.Context(), courseID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(course))
}

// List handles GET /api/v1/courses. The response is sanitized for public
// consumption.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListSanitized(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(courses))
}

// GetContent handles GET /api/v1/courses/{courseID}/content. Only owners
// and admins see the full course.
func (h *CourseHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}
	courseID := chi.URLParam(r, "courseID")

	course, err := h.service.GetContent(r.Context(), p, courseID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(course))
}

// AddQuestion handles POST /api/v1/courses/{courseID}/questions
func (h *CourseHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	var req AddQuestionRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.service.AddQuestion(r.Context(), p, chi.URLParam(r, "courseID"), req.SectionID, req.Question)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(course))
}

// AddAnswer handles POST /api/v1/courses/{courseID}/answers
func (h *CourseHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	var req AddAnswerRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.service.AddAnswer(r.Context(), p, chi.URLParam(r, "courseID"), req.SectionID, req.QuestionID, req.Answer)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(course))
}

// AddReview handles POST /api/v1/courses/{courseID}/reviews
func (h *CourseHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	var req AddReviewRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.service.AddReview(r.Context(), p, chi.URLParam(r, "courseID"), req.Rating, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(course))
}

// AddReviewReply handles POST /api/v1/admin/courses/{courseID}/reviews/replies
func (h *CourseHandler) AddReviewReply(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("please login to access this resource"), h.logger)
		return
	}

	var req AddReviewReplyRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.service.AddReviewReply(r.Context(), p, chi.URLParam(r, "courseID"), req.ReviewID, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(course))
}

// Create handles POST /api/v1/admin/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.service.Create(r.Context(), req.toCourse())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(course))
}

// Update handles PUT /api/v1/admin/courses/{courseID}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.service.Update(r.Context(), chi.URLParam(r, "courseID"), req.toCourse())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(course))
}

// ListFull handles GET /api/v1/admin/courses, returning unsanitized courses.
func (h *CourseHandler) ListFull(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListFull(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(courses))
}

// Delete handles DELETE /api/v1/admin/courses/{courseID}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "courseID")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OKMessage("course deleted successfully"))
}
