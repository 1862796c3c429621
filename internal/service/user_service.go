package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
	"github.com/ndewijer/stock-portfolio-tracker/internal/repository"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo *repository.UserRepository
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// CreateUser registers a user. Usernames and email addresses must be unique.
func (s *UserService) CreateUser(ctx context.Context, req request.CreateUserRequest) (model.User, error) {
	u := model.User{
		ID:       uuid.New().String(),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
	}

	taken, err := s.userRepo.UsernameExists(ctx, u.Username)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, apperrors.ErrDuplicateUsername
	}

	taken, err = s.userRepo.EmailExists(ctx, u.Email)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, apperrors.ErrDuplicateEmail
	}

	if err := s.userRepo.InsertUser(ctx, u); err != nil {
		return model.User{}, err
	}

	s.log.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("Created user")
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (model.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}
