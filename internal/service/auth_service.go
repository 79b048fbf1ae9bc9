package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
	"github.com/prasaddsahil07/vdoTube/pkg/metrics"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost int
}

// AuthService defines the interface for authentication and session operations
type AuthService interface {
	// Register creates a user; avatarPath is required, coverPath optional. Both are local temp files.
	Register(ctx context.Context, req *dto.RegisterRequest, avatarPath, coverPath string) (*domain.User, error)
	// Login verifies credentials and starts a new session
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *domain.TokenPair, error)
	// RotateSession issues both tokens and stores the refresh token as the only valid one
	RotateSession(ctx context.Context, userID string) (*domain.TokenPair, error)
	// RefreshSession exchanges a refresh token for a new pair exactly once
	RefreshSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout clears the stored session
	Logout(ctx context.Context, userID string) error
	// Authenticate resolves an access token into its principal; withSecrets keeps the password hash
	Authenticate(ctx context.Context, accessToken string, withSecrets bool) (*domain.User, error)
	// ChangePassword replaces the password of a principal loaded with its secrets
	ChangePassword(ctx context.Context, user *domain.User, req *dto.ChangePasswordRequest) error
}

// authService implements AuthService
type authService struct {
	userRepo  repository.UserRepository
	tokens    TokenService
	media     MediaService
	publisher EventPublisher
	config    *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenService,
	media MediaService,
	publisher EventPublisher,
	config *AuthServiceConfig,
) AuthService {
	if config == nil {
		config = &AuthServiceConfig{}
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = NoOpEventPublisher{}
	}
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		media:     media,
		publisher: publisher,
		config:    config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, avatarPath, coverPath string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()
	defer removeLocal(avatarPath)
	defer removeLocal(coverPath)

	req.Normalize()
	span.SetAttributes(attribute.String("username", req.Username))

	if avatarPath == "" {
		span.SetStatus(codes.Error, "avatar missing")
		return nil, fmt.Errorf("%w: avatar file is required", ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "user already exists")
		metrics.AuthEvents.WithLabelValues("register", "rejected").Inc()
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	avatarURL, err := s.media.Upload(ctx, avatarPath, FolderAvatars)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	var coverURL string
	if coverPath != "" {
		coverURL, err = s.media.Upload(ctx, coverPath, FolderCovers)
		if err != nil {
			s.media.Discard(ctx, avatarURL, "", "register failed")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to upload cover image: %w", err)
		}
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.media.Discard(ctx, avatarURL, "", "register failed")
		s.media.Discard(ctx, coverURL, "", "register failed")
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			span.SetStatus(codes.Error, "user already exists")
			return nil, ErrUserAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publisher.PublishActivity(ctx, newActivity(domain.EventUserRegistered, user.ID, "", ""))
	metrics.AuthEvents.WithLabelValues("register", "ok").Inc()

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user.Sanitized(), nil
}

// Login authenticates a user
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	req.Normalize()

	user, err := s.userRepo.GetByLogin(ctx, req.Username, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.AuthEvents.WithLabelValues("login", "error").Inc()
		return nil, nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.RotateSession(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.AuthEvents.WithLabelValues("login", "error").Inc()
		return nil, nil, err
	}

	metrics.AuthEvents.WithLabelValues("login", "ok").Inc()
	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user.Sanitized(), pair, nil
}

// RotateSession issues a new token pair and overwrites the stored session
func (s *authService) RotateSession(ctx context.Context, userID string) (*domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.rotate_session")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	pair, err := s.issuePair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	digest := HashToken(pair.RefreshToken)
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, &digest); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return pair, nil
}

// RefreshSession verifies the presented token, then swaps the stored digest in a single
// compare-and-swap. A stale token revokes the session.
func (s *authService) RefreshSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh_session")
	defer span.End()

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, "invalid refresh token")
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		return nil, ErrInvalidToken
	}
	span.SetAttributes(attribute.String("user_id", userID))

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.AuthEvents.WithLabelValues("refresh", "error").Inc()
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		return nil, ErrInvalidToken
	}

	pair, err := s.issuePair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	swapped, err := s.userRepo.SwapRefreshTokenHash(ctx, user.ID, HashToken(refreshToken), HashToken(pair.RefreshToken))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.AuthEvents.WithLabelValues("refresh", "error").Inc()
		return nil, err
	}
	if !swapped {
		// the token was already rotated or logged out: treat as theft and end the session
		if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, nil); err != nil {
			span.RecordError(err)
		}
		metrics.RefreshReuseDetected.Inc()
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		span.SetStatus(codes.Error, "refresh token reused")
		return nil, ErrRefreshTokenReused
	}

	metrics.AuthEvents.WithLabelValues("refresh", "ok").Inc()
	span.SetStatus(codes.Ok, "")
	return pair, nil
}

// Logout clears the stored session
func (s *authService) Logout(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	err := s.userRepo.SetRefreshTokenHash(ctx, userID, nil)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	metrics.AuthEvents.WithLabelValues("logout", "ok").Inc()
	span.SetStatus(codes.Ok, "")
	return nil
}

// Authenticate verifies an access token and loads its principal
func (s *authService) Authenticate(ctx context.Context, accessToken string, withSecrets bool) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.authenticate")
	defer span.End()

	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}
	span.SetAttributes(attribute.String("user_id", claims.UserID))

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrInvalidToken
	}

	span.SetStatus(codes.Ok, "")
	if withSecrets {
		return user, nil
	}
	return user.Sanitized(), nil
}

// ChangePassword checks the old password and stores the new hash
func (s *authService) ChangePassword(ctx context.Context, user *domain.User, req *dto.ChangePasswordRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.change_password")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", user.ID))

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		span.SetStatus(codes.Error, "incorrect password")
		return ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *authService) issuePair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
