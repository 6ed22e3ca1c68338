package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"pota_dashboard/internal/domain/user"
	"pota_dashboard/internal/infra/memdb"
)

var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// AuthService checks login attempts against the seeded credential list.
// There is no registration and no password recovery; the accounts are
// fixed for the lifetime of the process.
type AuthService struct {
	userRepo user.Repository
	logger   *logrus.Logger
}

func NewAuthService(ur user.Repository, logger *logrus.Logger) *AuthService {
	return &AuthService{userRepo: ur, logger: logger}
}

// Login verifies the email/password pair and returns the matching user.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == memdb.ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if err := u.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Infof("User %s (%s) logged in.", u.FullName, u.Role)
	return u, nil
}
