package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/session"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

// UserService implements profile and user administration operations. Every
// profile mutation writes the session through so cached identity never lags
// the database.
type UserService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, sessions *session.Store, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

// UpdateInfoInput holds the parameters for updating profile details.
type UpdateInfoInput struct {
	Name  *string
	Email *string
}

// GetProfile returns the user's profile, serving from the session cache when
// possible.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.sessions.Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		s.logger.WarnContext(ctx, "session read failed, falling back to database",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	user, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// UpdateInfo updates the user's name and/or email.
func (s *UserService) UpdateInfo(ctx context.Context, userID string, input UpdateInfoInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, apperrors.InvalidInput("email must not be empty")
		}
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	s.logger.InfoContext(ctx, "user info updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// UpdatePassword changes the user's password after verifying the current one.
// Social accounts have no password to change.
func (s *UserService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.InvalidInput("old and new passwords are required")
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if user.IsSocial || user.PasswordHash == "" {
		return apperrors.InvalidInput("social accounts cannot change password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.InvalidInput("old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	s.logger.InfoContext(ctx, "password updated",
		slog.String("user_id", user.ID),
	)

	return nil
}

// UpdateAvatar replaces the user's avatar reference.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, avatar domain.Avatar) (*domain.User, error) {
	if avatar.URL == "" {
		return nil, apperrors.InvalidInput("avatar url is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for avatar update: %w", err)
	}

	user.Avatar = &avatar
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user avatar: %w", err)
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	s.logger.InfoContext(ctx, "avatar updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// ListUsers returns a page of users newest first with the total count.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateRole changes a user's role. The session is written through so the
// new role takes effect on the user's next authenticated request.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid role %q", role))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for role update: %w", err)
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	s.logger.InfoContext(ctx, "user role updated",
		slog.String("user_id", user.ID),
		slog.String("role", string(role)),
	)

	return user, nil
}

// DeleteUser removes a user and drops their session, ending any live logins.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to drop session for deleted user",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", userID),
	)

	return nil
}
