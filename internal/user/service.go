package user

import (
	"context"
	"errors"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
		zap.String("email", email),
	)

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		log.Error("failed to look up admin", zap.Error(err))
		return "", err
	}

	if !CheckPasswordHash(password, admin.PasswordHash) {
		log.Warn("password mismatch")
		return "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(admin.ID, admin.Role, admin.Email)
	if err != nil {
		log.Error("failed to sign token", zap.Error(err))
		return "", err
	}

	log.Info("admin logged in")
	return token, nil
}
