package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"
	"reviewdb/internal/config"
	"reviewdb/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims carried in access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// CodeThrottle limits how often a confirmation code may be requested for an
// address. Satisfied by cache.RedisCache.
type CodeThrottle interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type AuthService interface {
	RequestCode(ctx context.Context, email string) error
	ExchangeCode(ctx context.Context, email, code string) (accessToken, refreshToken string, err error)
	RefreshAccessToken(refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	mail             mailer.Mailer
	throttle         CodeThrottle
	throttleKey      func(email string) string
	logger           *zap.Logger

	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	codeRequestLimit int64
	codeRequestTTL   time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	mail mailer.Mailer,
	throttle CodeThrottle,
	throttleKey func(email string) string,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		mail:             mail,
		throttle:         throttle,
		throttleKey:      throttleKey,
		logger:           logger,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		codeRequestLimit: int64(cfg.CodeRequestLimit),
		codeRequestTTL:   cfg.CodeRequestWindow,
	}
}

// Stable bcrypt hash used for a dummy compare when the account lookup fails,
// so the unknown-email and wrong-code paths take comparable time.
const dummyCodeHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

// RequestCode generates a single-use confirmation code for the account
// behind email, stores its bcrypt hash on the user row (replacing any
// outstanding code) and mails the plaintext code. The code never appears in
// an API response.
func (s *authService) RequestCode(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.throttle != nil {
		count, err := s.throttle.IncrWithTTL(ctx, s.throttleKey(email), s.codeRequestTTL)
		if err != nil {
			return err
		}
		if count > s.codeRequestLimit {
			return ErrTooManyCodeRequests
		}
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.ConfirmationCodeHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"You requested a confirmation code for the ReviewDB API.\n\nYour code: %s\n\nKeep it secret. The code stops working after its first use.\n",
		code,
	)
	if err := s.mail.Send(user.Email, "ReviewDB confirmation code", body); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	return nil
}

// ExchangeCode trades a valid (email, code) pair for an access/refresh token
// pair. All failure modes collapse into ErrInvalidCredentials so responses
// do not reveal whether the email or the code was wrong.
func (s *authService) ExchangeCode(ctx context.Context, email, code string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		// Dummy compare to keep timing consistent with the happy path.
		bcrypt.CompareHashAndPassword([]byte(dummyCodeHash), []byte(code))
		return "", "", ErrInvalidCredentials
	}

	if user.ConfirmationCodeHash == "" {
		bcrypt.CompareHashAndPassword([]byte(dummyCodeHash), []byte(code))
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCodeHash), []byte(code)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	// Single-use: clear the hash so replaying the same code fails.
	user.ConfirmationCodeHash = ""
	if err := s.userRepo.Update(user); err != nil {
		return "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	if refreshToken.Revoked {
		return "", ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(refreshToken.ID); err != nil {
			s.logger.Warn("failed to remove expired refresh token",
				zap.String("token_id", refreshToken.ID),
				zap.Error(err))
		}
		return "", ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(refreshToken.UserID)
	if err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// generateConfirmationCode returns a 160-bit random hex string.
func generateConfirmationCode() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
