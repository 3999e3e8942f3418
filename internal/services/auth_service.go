package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = apperr.New(apperr.ErrConflict, "User with this email already exists")
	ErrScreenNameTaken    = apperr.New(apperr.ErrConflict, "Screen name is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = apperr.New(apperr.ErrNotFound, "user not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	screenName := strings.TrimSpace(req.ScreenName)
	db := s.db.WithContext(ctx)

	taken, err := s.exists(db, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.exists(db, "screen_name = ?", screenName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrScreenNameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		ScreenName:   &screenName,
		PasswordHash: string(hash),
		AuthProvider: "email",
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.signupConflict(db, email)
		}
		return nil, apperr.FromDB("create user", err, nil)
	}

	return s.authResponse(&user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.FromDB("find user", err, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(&user)
}

// SetScreenName claims a screen name. Re-claiming your own name succeeds.
func (s *AuthService) SetScreenName(ctx context.Context, userID uuid.UUID, screenName string) (*dto.ScreenNameResponse, error) {
	screenName = strings.TrimSpace(screenName)
	db := s.db.WithContext(ctx)

	taken, err := s.exists(db, "screen_name = ? AND id <> ?", screenName, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrScreenNameTaken
	}

	res := db.Model(&models.User{}).Where("id = ?", userID).Update("screen_name", screenName)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, ErrScreenNameTaken
	}
	if res.Error != nil {
		return nil, apperr.FromDB("update screen name", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return &dto.ScreenNameResponse{ID: userID, ScreenName: screenName}, nil
}

// signupConflict names the unique column a concurrent signup claimed first.
func (s *AuthService) signupConflict(db *gorm.DB, email string) error {
	taken, err := s.exists(db, "email = ?", email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return ErrScreenNameTaken
}

func (s *AuthService) exists(db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, apperr.FromDB("lookup user", err, nil)
	}
	return count > 0, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		User: dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			ScreenName: user.DisplayName(),
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
