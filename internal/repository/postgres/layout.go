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

// LayoutRepository implements repository.LayoutRepository using PostgreSQL.
// The payload column holds the type-specific content (banner, faqs, or
// categories) as JSONB; a unique index on type enforces one document per kind.
type LayoutRepository struct {
	db database.DBTX
}

// NewLayoutRepository creates a new PostgreSQL-backed layout repository.
func NewLayoutRepository(db database.DBTX) *LayoutRepository {
	return &LayoutRepository{db: db}
}

// layoutPayload is the JSONB shape stored per layout row.
type layoutPayload struct {
	Banner     *domain.Banner    `json:"banner,omitempty"`
	FAQs       []domain.FAQItem  `json:"faqs,omitempty"`
	Categories []domain.Category `json:"categories,omitempty"`
}

// Create inserts a layout document; each type may exist at most once.
func (r *LayoutRepository) Create(ctx context.Context, l *domain.Layout) error {
	payloadJSON, err := marshalLayoutPayload(l)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO layouts (id, type, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Exec(ctx, query,
		l.ID,
		l.Type,
		payloadJSON,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("layout", "type", string(l.Type))
		}
		return fmt.Errorf("insert layout: %w", err)
	}

	return nil
}

// GetByType retrieves the layout document for a type.
func (r *LayoutRepository) GetByType(ctx context.Context, layoutType domain.LayoutType) (*domain.Layout, error) {
	query := `SELECT id, type, payload, created_at, updated_at FROM layouts WHERE type = $1`

	var (
		l           domain.Layout
		payloadJSON []byte
	)
	err := r.db.QueryRow(ctx, query, layoutType).Scan(
		&l.ID,
		&l.Type,
		&payloadJSON,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan layout: %w", err)
	}

	var p layoutPayload
	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &p); err != nil {
			return nil, fmt.Errorf("unmarshal layout payload: %w", err)
		}
	}
	l.Banner = p.Banner
	l.FAQs = p.FAQs
	l.Categories = p.Categories

	return &l, nil
}

// Update replaces the layout document for a type.
func (r *LayoutRepository) Update(ctx context.Context, l *domain.Layout) error {
	l.UpdatedAt = time.Now().UTC()

	payloadJSON, err := marshalLayoutPayload(l)
	if err != nil {
		return err
	}

	query := `UPDATE layouts SET payload = $1, updated_at = $2 WHERE type = $3`

	ct, err := r.db.Exec(ctx, query, payloadJSON, l.UpdatedAt, l.Type)
	if err != nil {
		return fmt.Errorf("update layout: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("layout", string(l.Type))
	}

	return nil
}

func marshalLayoutPayload(l *domain.Layout) ([]byte, error) {
	p := layoutPayload{
		Banner:     l.Banner,
		FAQs:       l.FAQs,
		Categories: l.Categories,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal layout payload: %w", err)
	}
	return b, nil
}
