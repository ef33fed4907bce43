package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

const minPasswordLen = 8

type RegisterInput struct {
	Nickname string
	Email    string
	Password string
	Role     domain.Role
}

// UserService provisions accounts. Sign-in and tokens live in the auth gateway.
type UserService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewUserService(store storage.Storage, log *slog.Logger) *UserService {
	return &UserService{store: store, log: log}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" || utf8.RuneCountInString(nickname) > 50 {
		return nil, errors.BadRequestf("nickname must be 1-50 characters")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") {
		return nil, errors.BadRequestf("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLen {
		return nil, errors.BadRequestf("password must be at least %d characters", minPasswordLen)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if err := role.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Annotate(err, "hashing password")
	}
	user, err := s.store.CreateUser(ctx, &domain.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	return user, errors.Trace(err)
}
