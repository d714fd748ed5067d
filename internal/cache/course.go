package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
)

// ErrMiss is returned when the requested entry is not cached.
var ErrMiss = errors.New("cache miss")

const (
	courseKeyPrefix = "course:"
	allCoursesKey   = "courses:all"
)

// CourseCache is a Redis read-through cache for sanitized course views.
// Entries are invalidated on every course mutation.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCourseCache creates a course cache with the given entry TTL.
func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	return &CourseCache{client: client, ttl: ttl}
}

// GetCourse returns the cached sanitized course, or ErrMiss.
func (c *CourseCache) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	data, err := c.client.Get(ctx, courseKeyPrefix+courseID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("read course cache: %w", err)
	}

	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("decode cached course: %w", err)
	}
	return &course, nil
}

// PutCourse caches a sanitized course view.
func (c *CourseCache) PutCourse(ctx context.Context, course *domain.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	if err := c.client.Set(ctx, courseKeyPrefix+course.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write course cache: %w", err)
	}
	return nil
}

// GetAll returns the cached sanitized course list, or ErrMiss.
func (c *CourseCache) GetAll(ctx context.Context) ([]*domain.Course, error) {
	data, err := c.client.Get(ctx, allCoursesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("read course list cache: %w", err)
	}

	var courses []*domain.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("decode cached course list: %w", err)
	}
	return courses, nil
}

// PutAll caches the sanitized course list.
func (c *CourseCache) PutAll(ctx context.Context, courses []*domain.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("marshal course list: %w", err)
	}
	if err := c.client.Set(ctx, allCoursesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write course list cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for one course and the list entry.
// Called after every course mutation so readers never see stale content.
func (c *CourseCache) Invalidate(ctx context.Context, courseID string) error {
	if err := c.client.Del(ctx, courseKeyPrefix+courseID, allCoursesKey).Err(); err != nil {
		return fmt.Errorf("invalidate course cache: %w", err)
	}
	return nil
}
