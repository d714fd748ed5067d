package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/cache"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/slug"
)

// CourseService implements course catalog and content operations. Public
// reads go through the Redis cache and always serve sanitized views; full
// content requires ownership.
type CourseService struct {
	courseRepo       repository.CourseRepository
	notificationRepo repository.NotificationRepository
	cache            *cache.CourseCache
	logger           *slog.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(
	courseRepo repository.CourseRepository,
	notificationRepo repository.NotificationRepository,
	courseCache *cache.CourseCache,
	logger *slog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:       courseRepo,
		notificationRepo: notificationRepo,
		cache:            courseCache,
		logger:           logger,
	}
}

// Create persists a new course. The URL slug is derived from the name.
func (s *CourseService) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if course.Name == "" {
		return nil, apperrors.InvalidInput("course name is required")
	}
	if course.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	now := time.Now().UTC()
	course.ID = uuid.New().String()
	course.Slug = slug.Generate(course.Name)
	course.Reviews = []domain.Review{}
	course.Ratings = 0
	course.Purchased = 0
	course.CreatedAt = now
	course.UpdatedAt = now
	assignSectionIDs(course.Sections)

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.invalidate(ctx, course.ID)

	s.logger.InfoContext(ctx, "course created",
		slog.String("course_id", course.ID),
		slog.String("slug", course.Slug),
	)

	return course, nil
}

// Update replaces a course's editable content. Reviews, ratings, and the
// purchase counter survive the edit.
func (s *CourseService) Update(ctx context.Context, courseID string, updated *domain.Course) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course for update: %w", err)
	}

	if updated.Name != "" && updated.Name != course.Name {
		course.Name = updated.Name
		course.Slug = slug.Generate(updated.Name)
	}
	course.Description = updated.Description
	course.Price = updated.Price
	course.EstimatedPrice = updated.EstimatedPrice
	if updated.Thumbnail != nil {
		course.Thumbnail = updated.Thumbnail
	}
	course.Tags = updated.Tags
	course.Level = updated.Level
	course.DemoURL = updated.DemoURL
	course.Benefits = updated.Benefits
	course.Prerequisites = updated.Prerequisites
	if updated.Sections != nil {
		assignSectionIDs(updated.Sections)
		course.Sections = updated.Sections
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.invalidate(ctx, course.ID)

	s.logger.InfoContext(ctx, "course updated",
		slog.String("course_id", course.ID),
	)

	return course, nil
}

// GetSanitized returns the public view of one course, read through the cache.
func (s *CourseService) GetSanitized(ctx context.Context, courseID string) (*domain.Course, error) {
	course, err := s.cache.GetCourse(ctx, courseID)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "course cache read failed",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
	}

	full, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	sanitized := full.Sanitized()
	if err := s.cache.PutCourse(ctx, sanitized); err != nil {
		s.logger.WarnContext(ctx, "course cache write failed",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
	}

	return sanitized, nil
}

// ListSanitized returns the public view of every course, read through the cache.
func (s *CourseService) ListSanitized(ctx context.Context) ([]*domain.Course, error) {
	courses, err := s.cache.GetAll(ctx)
	if err == nil {
		return courses, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "course list cache read failed",
			slog.String("error", err.Error()),
		)
	}

	full, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	sanitized := make([]*domain.Course, len(full))
	for i, c := range full {
		sanitized[i] = c.Sanitized()
	}

	if err := s.cache.PutAll(ctx, sanitized); err != nil {
		s.logger.WarnContext(ctx, "course list cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return sanitized, nil
}

// ListFull returns every course with full content, for administration.
func (s *CourseService) ListFull(ctx context.Context) ([]*domain.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetContent returns the full course content for a principal who owns the
// course. Admins can read any course.
func (s *CourseService) GetContent(ctx context.Context, principal domain.Principal, courseID string) (*domain.Course, error) {
	if principal.Role != domain.RoleAdmin && !principal.OwnsCourse(courseID) {
		return nil, apperrors.Forbidden("you are not eligible to access this course")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course content: %w", err)
	}

	return course, nil
}

// AddQuestion attaches a question to a course section and notifies admins.
func (s *CourseService) AddQuestion(ctx context.Context, principal domain.Principal, courseID, sectionID, question string) (*domain.Course, error) {
	if question == "" {
		return nil, apperrors.InvalidInput("question is required")
	}
	if principal.Role != domain.RoleAdmin && !principal.OwnsCourse(courseID) {
		return nil, apperrors.Forbidden("you are not eligible to access this course")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	section := findSection(course, sectionID)
	if section == nil {
		return nil, apperrors.NotFound("section", sectionID)
	}

	section.Questions = append(section.Questions, domain.Question{
		ID:        uuid.New().String(),
		User:      commentUser(principal),
		Question:  question,
		Replies:   []domain.Answer{},
		CreatedAt: time.Now().UTC(),
	})

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}

	s.notify(ctx, principal.ID, "New Question Received",
		fmt.Sprintf("%s asked a question in %s", principal.Name, section.Title))

	return course, nil
}

// AddAnswer attaches a reply to a question. When someone answers their own
// question no notification is raised; otherwise the question author is
// notified through the admin feed.
func (s *CourseService) AddAnswer(ctx context.Context, principal domain.Principal, courseID, sectionID, questionID, answer string) (*domain.Course, error) {
	if answer == "" {
		return nil, apperrors.InvalidInput("answer is required")
	}
	if principal.Role != domain.RoleAdmin && !principal.OwnsCourse(courseID) {
		return nil, apperrors.Forbidden("you are not eligible to access this course")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	section := findSection(course, sectionID)
	if section == nil {
		return nil, apperrors.NotFound("section", sectionID)
	}

	question := findQuestion(section, questionID)
	if question == nil {
		return nil, apperrors.NotFound("question", questionID)
	}

	question.Replies = append(question.Replies, domain.Answer{
		ID:        uuid.New().String(),
		User:      commentUser(principal),
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	})

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}

	if principal.ID != question.User.ID {
		s.notify(ctx, question.User.ID, "New Question Reply Received",
			fmt.Sprintf("You have a new reply in %s", section.Title))
	}

	return course, nil
}

// AddReview appends a review from a course owner and refreshes the average
// rating.
func (s *CourseService) AddReview(ctx context.Context, principal domain.Principal, courseID string, rating float64, comment string) (*domain.Course, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if !principal.OwnsCourse(courseID) {
		return nil, apperrors.Forbidden("you are not eligible to access this course")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	course.Reviews = append(course.Reviews, domain.Review{
		ID:        uuid.New().String(),
		User:      commentUser(principal),
		Rating:    rating,
		Comment:   comment,
		Replies:   []domain.ReviewReply{},
		CreatedAt: time.Now().UTC(),
	})
	course.RecalculateRatings()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	s.invalidate(ctx, course.ID)

	s.notify(ctx, principal.ID, "New Review Received",
		fmt.Sprintf("%s left a review on %s", principal.Name, course.Name))

	return course, nil
}

// AddReviewReply attaches an admin reply to a review.
func (s *CourseService) AddReviewReply(ctx context.Context, principal domain.Principal, courseID, reviewID, comment string) (*domain.Course, error) {
	if comment == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	var review *domain.Review
	for i := range course.Reviews {
		if course.Reviews[i].ID == reviewID {
			review = &course.Reviews[i]
			break
		}
	}
	if review == nil {
		return nil, apperrors.NotFound("review", reviewID)
	}

	review.Replies = append(review.Replies, domain.ReviewReply{
		ID:        uuid.New().String(),
		User:      commentUser(principal),
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("save review reply: %w", err)
	}

	s.invalidate(ctx, course.ID)

	return course, nil
}

// Delete removes a course and its cached views.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.invalidate(ctx, courseID)

	s.logger.InfoContext(ctx, "course deleted",
		slog.String("course_id", courseID),
	)

	return nil
}

// invalidate drops the cached views for a course; a cache outage only costs
// freshness until the TTL, so failures are logged and swallowed.
func (s *CourseService) invalidate(ctx context.Context, courseID string) {
	if err := s.cache.Invalidate(ctx, courseID); err != nil {
		s.logger.WarnContext(ctx, "course cache invalidation failed",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
	}
}

// notify records an admin-feed notification; failures are logged, not returned.
func (s *CourseService) notify(ctx context.Context, userID, title, message string) {
	now := time.Now().UTC()
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Status:    domain.NotificationUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to create notification",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
	}
}

func assignSectionIDs(sections []domain.Section) {
	for i := range sections {
		if sections[i].ID == "" {
			sections[i].ID = uuid.New().String()
		}
		if sections[i].Questions == nil {
			sections[i].Questions = []domain.Question{}
		}
	}
}

func findSection(course *domain.Course, sectionID string) *domain.Section {
	for i := range course.Sections {
		if course.Sections[i].ID == sectionID {
			return &course.Sections[i]
		}
	}
	return nil
}

func findQuestion(section *domain.Section, questionID string) *domain.Question {
	for i := range section.Questions {
		if section.Questions[i].ID == questionID {
			return &section.Questions[i]
		}
	}
	return nil
}

func commentUser(p domain.Principal) domain.CommentUser {
	return domain.CommentUser{
		ID:   p.ID,
		Name: p.Name,
	}
}
