package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// MinPasswordLength applies to registration and login alike.
const MinPasswordLength = 8

// Actor is the authenticated identity extracted from a bearer token.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   domain.UserRole
}

// Token errors map to 401 at the HTTP layer.
var (
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidTokenClaims = errors.New("invalid_token_claims")
)

// RegisterParams carries registration input. DisplayName and XRPLAddress
// create a fighter profile when the role is fighter and both are set.
type RegisterParams struct {
	Email       string
	Password    string
	Role        domain.UserRole
	DisplayName *string
	XRPLAddress *string
}

// AuthService registers accounts, verifies credentials, and issues tokens.
type AuthService struct {
	uow       relationaldb.UnitOfWork
	jwtSecret []byte
	jwtExpiry time.Duration
	now       func() time.Time
}

func NewAuthService(uow relationaldb.UnitOfWork, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		uow:       uow,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		now:       utcNow,
	}
}

// Register creates a new account with a bcrypt password hash. Emails are
// normalized to lowercase before the uniqueness check.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	if len(params.Password) < MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))

	_, err := s.uow.Users().GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         params.Role,
		CreatedAt:    s.now(),
	}
	if err := s.uow.Users().Create(ctx, user); err != nil {
		if errors.Is(err, relationaldb.ErrUniqueViolation) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	if params.Role == domain.RoleFighter && params.DisplayName != nil && params.XRPLAddress != nil {
		profile := &domain.FighterProfile{
			ID:          uuid.New(),
			UserID:      user.ID,
			DisplayName: *params.DisplayName,
			XRPLAddress: *params.XRPLAddress,
			CreatedAt:   s.now(),
		}
		if err := s.uow.FighterProfiles().Create(ctx, profile); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Authenticate verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.uow.Users().GetByEmail(ctx, normalized)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// IssueAccessToken signs an HS256 bearer token for the user.
func (s *AuthService) IssueAccessToken(user *domain.User) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(s.jwtExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies a bearer token and extracts the actor.
func ParseAccessToken(raw, jwtSecret string) (*Actor, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}
	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	roleRaw, _ := claims["role"].(string)
	if subject == "" || email == "" || roleRaw == "" {
		return nil, ErrInvalidTokenClaims
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidTokenClaims
	}
	role, err := domain.ParseUserRole(roleRaw)
	if err != nil {
		return nil, ErrInvalidTokenClaims
	}
	return &Actor{UserID: userID, Email: email, Role: role}, nil
}
