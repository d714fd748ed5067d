package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
)

func newCacheTest(t *testing.T) (*CourseCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewCourseCache(rdb, time.Hour), mr
}

func TestCourseCache_RoundTrip(t *testing.T) {
	c, _ := newCacheTest(t)
	ctx := context.Background()
	course := &domain.Course{ID: "c-1", Name: "Go from Scratch", Price: 49}

	require.NoError(t, c.PutCourse(ctx, course))

	got, err := c.GetCourse(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, course, got)
}

func TestCourseCache_MissReturnsErrMiss(t *testing.T) {
	c, _ := newCacheTest(t)

	_, err := c.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = c.GetAll(context.Background())
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCourseCache_ListRoundTrip(t *testing.T) {
	c, _ := newCacheTest(t)
	ctx := context.Background()
	courses := []*domain.Course{{ID: "c-1"}, {ID: "c-2"}}

	require.NoError(t, c.PutAll(ctx, courses))

	got, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, courses, got)
}

func TestCourseCache_EntriesExpire(t *testing.T) {
	c, mr := newCacheTest(t)
	ctx := context.Background()

	require.NoError(t, c.PutCourse(ctx, &domain.Course{ID: "c-1"}))
	mr.FastForward(2 * time.Hour)

	_, err := c.GetCourse(ctx, "c-1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCourseCache_InvalidateDropsCourseAndList(t *testing.T) {
	c, _ := newCacheTest(t)
	ctx := context.Background()

	require.NoError(t, c.PutCourse(ctx, &domain.Course{ID: "c-1"}))
	require.NoError(t, c.PutAll(ctx, []*domain.Course{{ID: "c-1"}}))

	require.NoError(t, c.Invalidate(ctx, "c-1"))

	_, err := c.GetCourse(ctx, "c-1")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.GetAll(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}
