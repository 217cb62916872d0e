package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stayhub/internal/auth"
	"stayhub/internal/domain"
)

const bcryptCost = 12

// UserService covers registration, login and token refresh plus the admin
// toggles (manager promotion, blocking).
type UserService struct {
	store  domain.Store
	tokens *auth.Issuer
}

func NewUserService(store domain.Store, tokens *auth.Issuer) *UserService {
	return &UserService{store: store, tokens: tokens}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	DOB      time.Time
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Email == "" || in.Password == "" || in.Username == "" {
		return domain.User{}, fmt.Errorf("username, email and password are required: %w", domain.ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		DOB:          in.DOB,
		Joined:       time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

type Session struct {
	User   domain.User
	Tokens auth.Pair
}

// Login deliberately reports every failure as ErrUnauthorized so callers
// cannot probe which emails exist.
func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, fmt.Errorf("bad credentials: %w", domain.ErrUnauthorized)
		}
		return Session{}, err
	}
	if u.IsBlocked {
		return Session{}, fmt.Errorf("account is blocked: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, fmt.Errorf("bad credentials: %w", domain.ErrUnauthorized)
	}
	return s.session(u)
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return Session{}, err
	}
	u, err := s.store.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, fmt.Errorf("unknown account: %w", domain.ErrUnauthorized)
		}
		return Session{}, err
	}
	if u.IsBlocked {
		return Session{}, fmt.Errorf("account is blocked: %w", domain.ErrUnauthorized)
	}
	return s.session(u)
}

func (s *UserService) session(u domain.User) (Session, error) {
	pair, err := s.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		return Session{}, err
	}
	u.PasswordHash = ""
	return Session{User: u, Tokens: pair}, nil
}

func (s *UserService) MakeManager(ctx context.Context, id string) (domain.User, error) {
	return s.setFlag(ctx, id, func(u *domain.User) { u.IsManager = true })
}

func (s *UserService) SetBlocked(ctx context.Context, id string, blocked bool) (domain.User, error) {
	return s.setFlag(ctx, id, func(u *domain.User) { u.IsBlocked = blocked })
}

func (s *UserService) setFlag(ctx context.Context, id string, apply func(*domain.User)) (domain.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	apply(&u)
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}
