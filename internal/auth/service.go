package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrDuplicateUser      = errors.New("username or email already exists")
)

// Repository defines the account lookups the auth service needs.
type Repository interface {
	FindByLogin(login string) (*Account, error)
	FindByID(id int64) (*Account, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	Create(account *Account) error
}

type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo Repository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(dto RegisterDTO) (*Account, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(dto.Username, dto.Email)
	if err != nil {
		s.logger.Error("register: uniqueness check failed", "error", err, "username", dto.Username)
		return nil, "", err
	}
	if exists {
		return nil, "", ErrDuplicateUser
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, "", err
	}

	account := &Account{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		FullName:     dto.FullName,
		Phone:        dto.Phone,
		IsActive:     true,
	}

	if err := s.repo.Create(account); err != nil {
		s.logger.Error("register: failed to create account", "error", err, "username", dto.Username)
		return nil, "", err
	}

	token, err := s.tokenGenerator.GenerateToken(account)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account registered", "user_id", account.ID, "role", account.Role)
	return account, token, nil
}

// Authenticate validates credentials and returns the account with a token.
// The login value matches either username or email.
func (s *Service) Authenticate(dto LoginDTO) (*Account, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	account, err := s.repo.FindByLogin(dto.Username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, "", ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateToken(account)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// CurrentUser loads the account behind validated claims.
func (s *Service) CurrentUser(userID int64) (*Account, error) {
	return s.repo.FindByID(userID)
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) GenerateToken(account *Account) (string, error) {
	expiresAt := time.Now().Add(j.TokenTTL)

	claims := &Claims{
		UserID:   account.ID,
		Username: account.Username,
		Role:     account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", account.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
