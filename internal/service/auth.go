package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/auth"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/repository"
	"github.com/EmmanuelKeifala/LMS-SERVER/internal/session"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 6

// EventPublisher publishes domain events. Satisfied by *event.Producer.
type EventPublisher interface {
	PublishUserActivationRequested(ctx context.Context, name, email, code string) error
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishOrderCreated(ctx context.Context, order *domain.Order, userEmail string, course *domain.Course) error
}

// AuthService implements registration, activation, login, session refresh,
// and logout. No user row exists until activation succeeds; the pending
// registration travels inside the activation token itself.
type AuthService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	tokens   *auth.TokenManager
	producer EventPublisher
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	sessions *session.Store,
	tokens *auth.TokenManager,
	producer EventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for starting a registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// SocialLoginInput holds the parameters for OAuth-backed login.
type SocialLoginInput struct {
	Name      string
	Email     string
	AvatarURL string
}

// Register validates a registration request and issues an activation token.
// The account is not created yet; the caller must present the token together
// with the emailed code to Activate.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if input.Name == "" {
		return "", apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return "", apperrors.InvalidInput("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return "", apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return "", apperrors.AlreadyExists("user", "email", input.Email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("check existing email: %w", err)
	}

	pending := domain.PendingRegistration{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	}

	token, code, err := s.tokens.IssueActivationToken(pending)
	if err != nil {
		return "", fmt.Errorf("issue activation token: %w", err)
	}

	// Publish activation event (non-blocking on failure); the notification
	// pipeline delivers the code.
	if err := s.producer.PublishUserActivationRequested(ctx, input.Name, input.Email, code); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.activation_requested event",
			slog.String("email", input.Email),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "registration started",
		slog.String("email", input.Email),
	)

	return token, nil
}

// Activate verifies the activation token and code and creates the account.
// Replaying a consumed token fails the duplicate-email check, not a token
// check, so activation needs no server-side token state.
func (s *AuthService) Activate(ctx context.Context, token, code string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("activation token is required")
	}

	claims, err := s.tokens.ValidateActivationToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired activation token")
	}

	if claims.Code != code {
		return nil, apperrors.InvalidInput("invalid activation code")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(claims.User.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         claims.User.Name,
		Email:        claims.User.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		Courses:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user activated",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates with email and password, opens a session, and mints a
// token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	if email == "" || password == "" {
		return nil, domain.TokenPair{}, apperrors.InvalidInput("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.TokenPair{}, apperrors.Unauthorized("invalid email or password")
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return user, pair, nil
}

// SocialLogin signs in an OAuth-verified identity, creating the account on
// first sight. Social accounts carry no usable password hash.
func (s *AuthService) SocialLogin(ctx context.Context, input SocialLoginInput) (*domain.User, domain.TokenPair, error) {
	if input.Email == "" {
		return nil, domain.TokenPair{}, apperrors.InvalidInput("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.TokenPair{}, fmt.Errorf("get user by email: %w", err)
		}

		now := time.Now().UTC()
		user = &domain.User{
			ID:        uuid.New().String(),
			Name:      input.Name,
			Email:     input.Email,
			Role:      domain.RoleUser,
			IsSocial:  true,
			Courses:   []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if input.AvatarURL != "" {
			user.Avatar = &domain.Avatar{URL: input.AvatarURL}
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, domain.TokenPair{}, fmt.Errorf("create social user: %w", err)
		}

		if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.registered event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.logger.InfoContext(ctx, "social login",
		slog.String("user_id", user.ID),
	)

	return user, pair, nil
}

// RefreshSession trades a valid refresh token for a fresh token pair. The
// session entry is the authority: a valid signature with no live session is
// rejected, which is how logout invalidates outstanding refresh tokens.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*domain.User, domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.TokenPair{}, apperrors.Unauthorized("please login to access this resource")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, domain.TokenPair{}, apperrors.Unauthorized("please login to access this resource")
		}
		return nil, domain.TokenPair{}, fmt.Errorf("read session: %w", err)
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	return user, pair, nil
}

// Logout drops the user's session. Refresh tokens die with it; the short
// access token lifetime bounds the remaining exposure.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
	)

	return nil
}

// openSession writes the session snapshot and mints a token pair.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	if err := s.sessions.Put(ctx, user); err != nil {
		return domain.TokenPair{}, fmt.Errorf("write session: %w", err)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	return pair, nil
}
