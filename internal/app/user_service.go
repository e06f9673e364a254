package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trivia-service/internal/domain"
)

// UserService manages author profiles. Only the profile's own user may read or write it.
type UserService struct {
	users UserRepository
	opts  options
}

func NewUserService(users UserRepository, opts ...Option) *UserService {
	return &UserService{users: users, opts: buildOptions(opts)}
}

// Save creates or overwrites uid's profile, keeping the original creation time.
func (s *UserService) Save(ctx context.Context, callerID, uid, name, email string) (domain.UserProfile, error) {
	if err := requireUser(uid); err != nil {
		return domain.UserProfile{}, err
	}
	if callerID != uid {
		return domain.UserProfile{}, domain.ErrForbidden
	}
	if strings.TrimSpace(name) == "" {
		return domain.UserProfile{}, domain.ErrInvalidInput
	}

	profile := domain.UserProfile{UID: uid, Name: name, Email: email, CreatedAt: s.opts.now()}
	existing, err := s.users.GetUser(ctx, uid)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.UserProfile{}, err
	}
	if err := s.users.PutUser(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("save user %s: %w", uid, err)
	}
	return profile, nil
}

func (s *UserService) Get(ctx context.Context, callerID, uid string) (domain.UserProfile, error) {
	if callerID != uid {
		return domain.UserProfile{}, domain.ErrForbidden
	}
	return s.users.GetUser(ctx, uid)
}
