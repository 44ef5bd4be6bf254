package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/events"
	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/validator"
)

const (
	// Every new wallet starts with the same play-money balance.
	defaultWalletBalance = 30000

	defaultCardExpiry = "12/12/2027"
)

type authService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher

	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
		jwtSecret:      []byte(jwtSecret),
		tokenTTL:       tokenTTL,
	}
}

// ===== REGISTRATION =====

func (s *authService) RegisterStudent(ctx context.Context, req *StudentRegisterRequest) (*models.User, error) {
	s.logger.Info("Registering student", "email", req.Email)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user := &models.User{
		Username: req.Name,
		Email:    req.Email,
		Profile:  req.Profile,
		Role:     models.RoleStudent,
		Avatar:   req.Photo,
	}

	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) RegisterTeacher(ctx context.Context, req *TeacherRegisterRequest) (*models.User, error) {
	s.logger.Info("Registering teacher", "email", req.Email)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	bio := req.Bio
	user := &models.User{
		Username: req.Name,
		Email:    req.Email,
		Profile:  req.Profile,
		Role:     models.RoleTeacher,
		Avatar:   req.Photo,
		Bio:      &bio,
	}

	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) createUser(ctx context.Context, user *models.User, password string) error {
	taken, err := s.repo.User().ExistsByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	user.CardType = randomCardType()
	user.CardNumber = randomCardNumber()
	user.CVV = randomCVV()
	user.Balance = defaultWalletBalance
	user.ExpiredDate = defaultCardExpiry

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	event := events.NewEvent(events.TopicUserRegistered, events.UserRegisteredEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish registration event", "error", err, "user_id", user.ID)
	}

	return nil
}

// ===== LOGIN =====

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &models.AuthResponse{Token: token, User: user}, nil
}

// ===== TOKENS =====

// The token carries only the stable user id; everything else is re-read per
// request so role or profile changes take effect immediately.
func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		Issuer:    "learning-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}

	var userID uint
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}

	return user, nil
}

// ===== WALLET DEFAULTS =====

func randomCardType() models.CardType {
	if rand.Intn(2) == 0 {
		return models.CardVisa
	}
	return models.CardMastercard
}

func randomCardNumber() string {
	return fmt.Sprintf("%04d %04d %04d %04d",
		rand.Intn(10000), rand.Intn(10000), rand.Intn(10000), rand.Intn(10000))
}

func randomCVV() string {
	return fmt.Sprintf("%03d", rand.Intn(1000))
}
