package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenServiceConfig holds configuration for TokenService
type TokenServiceConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenService issues and verifies access and refresh tokens. It never touches storage.
type TokenService interface {
	// IssueAccessToken signs the user's identity claims with the access secret
	IssueAccessToken(user *domain.User) (string, error)
	// IssueRefreshToken signs the user id with the refresh secret
	IssueRefreshToken(userID string) (string, error)
	// VerifyAccessToken checks signature, expiry and token type
	VerifyAccessToken(token string) (*domain.Claims, error)
	// VerifyRefreshToken checks signature, expiry and token type and returns the user id
	VerifyRefreshToken(token string) (string, error)
	// AccessTTL is the access token lifetime
	AccessTTL() time.Duration
	// RefreshTTL is the refresh token lifetime
	RefreshTTL() time.Duration
}

// tokenService implements TokenService
type tokenService struct {
	config *TokenServiceConfig
	now    func() time.Time
}

// NewTokenService creates a new TokenService
func NewTokenService(config *TokenServiceConfig) TokenService {
	if config.AccessTTL == 0 {
		config.AccessTTL = 15 * time.Minute
	}
	if config.RefreshTTL == 0 {
		config.RefreshTTL = 7 * 24 * time.Hour
	}
	return &tokenService{config: config, now: time.Now}
}

// IssueAccessToken signs an access token
func (s *tokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"user_id":   user.ID,
		"email":     user.Email,
		"username":  user.Username,
		"full_name": user.FullName,
		"type":      tokenTypeAccess,
		"iat":       now.Unix(),
		"exp":       now.Add(s.config.AccessTTL).Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessSecret))
}

// IssueRefreshToken signs a refresh token. jti makes two tokens issued in the same second differ.
func (s *tokenService) IssueRefreshToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"user_id": userID,
		"type":    tokenTypeRefresh,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.config.RefreshTTL).Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.RefreshSecret))
}

// VerifyAccessToken validates an access token and returns its claims
func (s *tokenService) VerifyAccessToken(token string) (*domain.Claims, error) {
	claims, err := s.parse(token, s.config.AccessSecret, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)
	fullName, _ := claims["full_name"].(string)
	return &domain.Claims{
		UserID:   claims["user_id"].(string),
		Email:    email,
		Username: username,
		FullName: fullName,
	}, nil
}

// VerifyRefreshToken validates a refresh token and returns the user id
func (s *tokenService) VerifyRefreshToken(token string) (string, error) {
	claims, err := s.parse(token, s.config.RefreshSecret, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return claims["user_id"].(string), nil
}

func (s *tokenService) AccessTTL() time.Duration  { return s.config.AccessTTL }
func (s *tokenService) RefreshTTL() time.Duration { return s.config.RefreshTTL }

// parse verifies the token and its type. Every failure collapses into ErrInvalidToken.
func (s *tokenService) parse(tokenString, secret, wantType string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != wantType {
		return nil, ErrInvalidToken
	}
	if id, _ := claims["user_id"].(string); id == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the hex SHA-256 digest stored in place of a raw refresh token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
