package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

// LayoutService manages the singleton-per-type CMS documents behind the
// landing page (banner, FAQ, categories).
type LayoutService struct {
	layoutRepo repository.LayoutRepository
	logger     *slog.Logger
}

// NewLayoutService creates a new layout service.
func NewLayoutService(layoutRepo repository.LayoutRepository, logger *slog.Logger) *LayoutService {
	return &LayoutService{
		layoutRepo: layoutRepo,
		logger:     logger,
	}
}

// Create stores a new layout document. Only one document may exist per type.
func (s *LayoutService) Create(ctx context.Context, layout *domain.Layout) (*domain.Layout, error) {
	if !layout.Type.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid layout type %q", layout.Type))
	}
	if err := validateLayoutContent(layout); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	layout.ID = uuid.New().String()
	layout.CreatedAt = now
	layout.UpdatedAt = now

	if err := s.layoutRepo.Create(ctx, layout); err != nil {
		return nil, fmt.Errorf("create layout: %w", err)
	}

	s.logger.InfoContext(ctx, "layout created",
		slog.String("type", string(layout.Type)),
	)

	return layout, nil
}

// Update replaces the content of an existing layout document.
func (s *LayoutService) Update(ctx context.Context, layout *domain.Layout) (*domain.Layout, error) {
	if !layout.Type.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid layout type %q", layout.Type))
	}
	if err := validateLayoutContent(layout); err != nil {
		return nil, err
	}

	existing, err := s.layoutRepo.GetByType(ctx, layout.Type)
	if err != nil {
		return nil, fmt.Errorf("get layout for update: %w", err)
	}

	existing.Banner = layout.Banner
	existing.FAQs = layout.FAQs
	existing.Categories = layout.Categories

	if err := s.layoutRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update layout: %w", err)
	}

	s.logger.InfoContext(ctx, "layout updated",
		slog.String("type", string(layout.Type)),
	)

	return existing, nil
}

// Get returns the layout document for a type.
func (s *LayoutService) Get(ctx context.Context, layoutType domain.LayoutType) (*domain.Layout, error) {
	if !layoutType.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid layout type %q", layoutType))
	}

	layout, err := s.layoutRepo.GetByType(ctx, layoutType)
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}

	return layout, nil
}

// validateLayoutContent checks that the populated content matches the type.
func validateLayoutContent(l *domain.Layout) error {
	switch l.Type {
	case domain.LayoutBanner:
		if l.Banner == nil {
			return apperrors.InvalidInput("banner content is required")
		}
	case domain.LayoutFAQ:
		if len(l.FAQs) == 0 {
			return apperrors.InvalidInput("faq items are required")
		}
	case domain.LayoutCategories:
		if len(l.Categories) == 0 {
			return apperrors.InvalidInput("categories are required")
		}
	}
	return nil
}
