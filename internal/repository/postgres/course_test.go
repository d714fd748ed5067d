package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

func newCourseTestFixture(t *testing.T) (*CourseRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewCourseRepository(mock)
	return repo, mock
}

func sampleCourse() *domain.Course {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Course{
		ID:             "c-100",
		Name:           "Advanced Go",
		Slug:           "advanced-go",
		Description:    "Concurrency, generics, and tooling",
		Price:          49.99,
		EstimatedPrice: 99.99,
		Thumbnail:      &domain.Image{ID: "img-7", URL: "https://cdn.example.com/go.png"},
		Tags:           "go,backend",
		Level:          "advanced",
		DemoURL:        "https://cdn.example.com/demo.mp4",
		Benefits:       []domain.Benefit{{Title: "Write concurrent services"}},
		Prerequisites:  []domain.Benefit{{Title: "Basic Go"}},
		Sections: []domain.Section{{
			ID:           "s-1",
			Title:        "Goroutines",
			VideoURL:     "https://cdn.example.com/s1.mp4",
			VideoSection: "Concurrency",
			VideoPlayer:  "vdocipher",
		}},
		Reviews:   []domain.Review{},
		Ratings:   0,
		Purchased: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func courseRow(t *testing.T, c *domain.Course) *pgxmock.Rows {
	t.Helper()
	thumbnail, err := json.Marshal(c.Thumbnail)
	require.NoError(t, err)
	benefits, err := json.Marshal(c.Benefits)
	require.NoError(t, err)
	prerequisites, err := json.Marshal(c.Prerequisites)
	require.NoError(t, err)
	sections, err := json.Marshal(c.Sections)
	require.NoError(t, err)
	reviews, err := json.Marshal(c.Reviews)
	require.NoError(t, err)

	cols := []string{
		"id", "name", "slug", "description", "price", "estimated_price", "thumbnail", "tags", "level",
		"demo_url", "benefits", "prerequisites", "sections", "reviews", "ratings", "purchased",
		"created_at", "updated_at",
	}
	return pgxmock.NewRows(cols).AddRow(
		c.ID, c.Name, c.Slug, c.Description, c.Price, c.EstimatedPrice, thumbnail, c.Tags, c.Level,
		c.DemoURL, benefits, prerequisites, sections, reviews, c.Ratings, c.Purchased,
		c.CreatedAt, c.UpdatedAt,
	)
}

func TestCourseRepository_Create_Success(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	c := sampleCourse()

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(
			c.ID, c.Name, c.Slug, c.Description, c.Price, c.EstimatedPrice,
			pgxmock.AnyArg(), // thumbnail
			c.Tags, c.Level, c.DemoURL,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			c.Ratings, c.Purchased, c.CreatedAt, c.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Create_DuplicateSlug(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	c := sampleCourse()

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(
			c.ID, c.Name, c.Slug, c.Description, c.Price, c.EstimatedPrice,
			pgxmock.AnyArg(), c.Tags, c.Level, c.DemoURL,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			c.Ratings, c.Purchased, c.CreatedAt, c.UpdatedAt,
		).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_GetByID_Success(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	c := sampleCourse()

	mock.ExpectQuery("SELECT .+ FROM courses WHERE id =").
		WithArgs(c.ID).
		WillReturnRows(courseRow(t, c))

	got, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Slug, got.Slug)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Goroutines", got.Sections[0].Title)
	assert.Equal(t, c.Sections[0].VideoURL, got.Sections[0].VideoURL)
	require.NotNil(t, got.Thumbnail)
	assert.Equal(t, c.Thumbnail.URL, got.Thumbnail.URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM courses WHERE id =").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_List_Success(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	c := sampleCourse()

	mock.ExpectQuery("SELECT .+ FROM courses ORDER BY created_at DESC").
		WillReturnRows(courseRow(t, c))

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, c.ID, courses[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Update_Success(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	c := sampleCourse()

	mock.ExpectExec("UPDATE courses").
		WithArgs(
			c.Name, c.Slug, c.Description, c.Price, c.EstimatedPrice,
			pgxmock.AnyArg(), c.Tags, c.Level, c.DemoURL,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			c.Ratings, c.Purchased,
			pgxmock.AnyArg(), // updated_at
			c.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Update_NotFound(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	c := sampleCourse()

	mock.ExpectExec("UPDATE courses").
		WithArgs(
			c.Name, c.Slug, c.Description, c.Price, c.EstimatedPrice,
			pgxmock.AnyArg(), c.Tags, c.Level, c.DemoURL,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			c.Ratings, c.Purchased, pgxmock.AnyArg(),
			c.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Delete_Success(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM courses WHERE id =").
		WithArgs("c-100").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "c-100")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newCourseTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM courses WHERE id =").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
