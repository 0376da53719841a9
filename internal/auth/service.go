package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit, in bytes.
	MaxPasswordLength = 72
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid signup data")
)

// UserStore persists accounts. Implementations return db.ErrDuplicate for
// an email already taken and db.ErrNotFound for unknown users.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string, initialCoins int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Service struct {
	users        UserStore
	tokens       *Tokens
	initialCoins int
	cost         int
}

func NewService(users UserStore, cfg config.AuthConfig) *Service {
	return &Service{
		users:        users,
		tokens:       NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		initialCoins: cfg.InitialCoins,
		cost:         bcrypt.DefaultCost,
	}
}

func (s *Service) Tokens() *Tokens { return s.tokens }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(req.Password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password must have at most %d bytes", ErrInvalidInput, MaxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, strings.TrimSpace(req.Name), string(hash), s.initialCoins)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	return s.respond(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCreds
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCreds
	}

	return s.respond(user)
}

// Me returns the current account with a fresh coin balance.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) respond(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, time.Now())
	if err != nil {
		return nil, err
	}
	u := *user
	u.PasswordHash = ""
	return &AuthResponse{Token: token, User: u}, nil
}
