package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/auth"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/repository"
	"movieflix-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

const (
	msgEmailTaken   = "User with this email already exists"
	msgEmailInUse   = "Email is already in use"
	msgUserNotFound = "User not found"
)

// Session is what signup and login hand back to the client.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService interface {
	Signup(ctx context.Context, in validation.SignupInput) (*Session, error)
	Login(ctx context.Context, in validation.LoginInput) (*Session, error)
	UpdateProfile(ctx context.Context, userID string, in validation.ProfileInput) (*models.User, error)
}

type authService struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	hasher  *auth.Hasher
	storage ObjectStorage
	logger  *logrus.Logger
	now     func() time.Time
}

// NewAuthService wires signup, login and profiles. storage may be nil, in
// which case replaced avatar objects are left in place.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, hasher *auth.Hasher, storage ObjectStorage, logger *logrus.Logger) AuthService {
	return &authService{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, in validation.SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(in).Err(); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, apperror.Duplicate(msgEmailTaken)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleMember,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Duplicate(msgEmailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("userId", user.ID).Info("User signed up")
	return &Session{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, in validation.LoginInput) (*Session, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(in).Err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, in.Password) {
		return nil, apperror.InvalidCredentials()
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).WithField("userId", user.ID).Warn("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

// UpdateProfile applies only the fields present in in.
func (s *authService) UpdateProfile(ctx context.Context, userID string, in validation.ProfileInput) (*models.User, error) {
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		in.Email = &email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	in.Normalize()
	if err := validation.Struct(in).Err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}

	if in.Name != nil && *in.Name != "" {
		user.Name = *in.Name
	}
	if in.Email != nil && *in.Email != "" && *in.Email != user.Email {
		other, err := s.users.FindByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if other != nil {
			return nil, apperror.Duplicate(msgEmailInUse)
		}
		user.Email = *in.Email
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	oldAvatar := user.Avatar
	if in.Avatar != nil {
		user.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Duplicate(msgEmailInUse)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if oldAvatar != "" && oldAvatar != user.Avatar {
		s.removeAvatar(ctx, oldAvatar)
	}
	return user, nil
}

func (s *authService) removeAvatar(ctx context.Context, url string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.DeleteByURL(ctx, url); err != nil {
		s.logger.WithError(err).WithField("avatar", url).Warn("Failed to remove old avatar")
	}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
