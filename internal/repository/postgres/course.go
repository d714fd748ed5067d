package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/pkg/database"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

// CourseRepository implements repository.CourseRepository using PostgreSQL.
// Nested course content (sections, reviews, benefits) lives in JSONB columns
// so a course round-trips as a single row.
type CourseRepository struct {
	db database.DBTX
}

// NewCourseRepository creates a new PostgreSQL-backed course repository.
func NewCourseRepository(db database.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, name, slug, description, price, estimated_price, thumbnail, tags, level,
		demo_url, benefits, prerequisites, sections, reviews, ratings, purchased, created_at, updated_at`

// Create inserts a new course into the database.
func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	cols, err := marshalCourseJSON(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO courses (id, name, slug, description, price, estimated_price, thumbnail, tags, level,
			demo_url, benefits, prerequisites, sections, reviews, ratings, purchased, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = r.db.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Slug,
		c.Description,
		c.Price,
		c.EstimatedPrice,
		cols.thumbnail,
		c.Tags,
		c.Level,
		c.DemoURL,
		cols.benefits,
		cols.prerequisites,
		cols.sections,
		cols.reviews,
		c.Ratings,
		c.Purchased,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("course", "slug", c.Slug)
		}
		return fmt.Errorf("insert course: %w", err)
	}

	return nil
}

// GetByID retrieves a course with its full nested content.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetCourse", query)
	c, err := scanCourseRow(r.db.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all courses newest first with their full nested content.
func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListCourses", query)
	rows, err := r.db.Query(ctx, query)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []*domain.Course{}
	for rows.Next() {
		c, err := scanCourseRow(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}

	return courses, nil
}

// Update replaces an existing course, including nested content.
func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	c.UpdatedAt = time.Now().UTC()

	cols, err := marshalCourseJSON(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE courses
		SET name = $1, slug = $2, description = $3, price = $4, estimated_price = $5, thumbnail = $6,
		    tags = $7, level = $8, demo_url = $9, benefits = $10, prerequisites = $11,
		    sections = $12, reviews = $13, ratings = $14, purchased = $15, updated_at = $16
		WHERE id = $17`

	ct, err := r.db.Exec(ctx, query,
		c.Name,
		c.Slug,
		c.Description,
		c.Price,
		c.EstimatedPrice,
		cols.thumbnail,
		c.Tags,
		c.Level,
		c.DemoURL,
		cols.benefits,
		cols.prerequisites,
		cols.sections,
		cols.reviews,
		c.Ratings,
		c.Purchased,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("course", "slug", c.Slug)
		}
		return fmt.Errorf("update course: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("course", c.ID)
	}

	return nil
}

// Delete removes a course from the database.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM courses WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("course", id)
	}

	return nil
}

// courseJSONColumns holds the serialized JSONB column values for one course.
type courseJSONColumns struct {
	thumbnail     []byte
	benefits      []byte
	prerequisites []byte
	sections      []byte
	reviews       []byte
}

func marshalCourseJSON(c *domain.Course) (*courseJSONColumns, error) {
	var cols courseJSONColumns
	var err error

	if c.Thumbnail != nil {
		if cols.thumbnail, err = json.Marshal(c.Thumbnail); err != nil {
			return nil, fmt.Errorf("marshal thumbnail: %w", err)
		}
	}
	if cols.benefits, err = json.Marshal(emptyIfNil(c.Benefits)); err != nil {
		return nil, fmt.Errorf("marshal benefits: %w", err)
	}
	if cols.prerequisites, err = json.Marshal(emptyIfNil(c.Prerequisites)); err != nil {
		return nil, fmt.Errorf("marshal prerequisites: %w", err)
	}
	if cols.sections, err = json.Marshal(emptySectionsIfNil(c.Sections)); err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}
	if cols.reviews, err = json.Marshal(emptyReviewsIfNil(c.Reviews)); err != nil {
		return nil, fmt.Errorf("marshal reviews: %w", err)
	}

	return &cols, nil
}

func scanCourseRow(row pgx.Row) (*domain.Course, error) {
	var (
		c             domain.Course
		thumbnail     []byte
		benefits      []byte
		prerequisites []byte
		sections      []byte
		reviews       []byte
	)

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Price,
		&c.EstimatedPrice,
		&thumbnail,
		&c.Tags,
		&c.Level,
		&c.DemoURL,
		&benefits,
		&prerequisites,
		&sections,
		&reviews,
		&c.Ratings,
		&c.Purchased,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}

	if len(thumbnail) > 0 {
		var img domain.Image
		if err := json.Unmarshal(thumbnail, &img); err != nil {
			return nil, fmt.Errorf("unmarshal thumbnail: %w", err)
		}
		c.Thumbnail = &img
	}

	c.Benefits = []domain.Benefit{}
	if len(benefits) > 0 {
		if err := json.Unmarshal(benefits, &c.Benefits); err != nil {
			return nil, fmt.Errorf("unmarshal benefits: %w", err)
		}
	}
	c.Prerequisites = []domain.Benefit{}
	if len(prerequisites) > 0 {
		if err := json.Unmarshal(prerequisites, &c.Prerequisites); err != nil {
			return nil, fmt.Errorf("unmarshal prerequisites: %w", err)
		}
	}
	c.Sections = []domain.Section{}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &c.Sections); err != nil {
			return nil, fmt.Errorf("unmarshal sections: %w", err)
		}
	}
	c.Reviews = []domain.Review{}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &c.Reviews); err != nil {
			return nil, fmt.Errorf("unmarshal reviews: %w", err)
		}
	}

	return &c, nil
}

func emptyIfNil(b []domain.Benefit) []domain.Benefit {
	if b == nil {
		return []domain.Benefit{}
	}
	return b
}

func emptySectionsIfNil(s []domain.Section) []domain.Section {
	if s == nil {
		return []domain.Section{}
	}
	return s
}

func emptyReviewsIfNil(r []domain.Review) []domain.Review {
	if r == nil {
		return []domain.Review{}
	}
	return r
}
