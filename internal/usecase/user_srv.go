package usecase

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/apperr"
	"cinema-ticketing/pkg/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	// DeleteAccount removes the actor's account. It is refused while the
	// user still holds tickets for sessions that have not started.
	DeleteAccount(ctx context.Context, actor Actor) error
}

type userService struct {
	repo  *repository.Repository
	clock clockwork.Clock
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, clock clockwork.Clock, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", actor.ID.String(), err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", actor.ID.String())
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", actor.ID.String(), err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", actor.ID.String())
	}

	if req.Username != user.Username {
		existing, err := s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username %s: %w", req.Username, err)
		}
		if existing != nil {
			return nil, apperr.Conflict("username %s is already taken", req.Username)
		}
	}

	if req.Email != user.Email {
		existing, err := s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil {
			return nil, apperr.Conflict("email is already registered")
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Phone = req.Phone
	user.PhotoURL = req.PhotoURL

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = s.clock.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", actor.ID.String(), err)
	}

	s.log.Info("Profile updated", zap.String("user_id", actor.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) DeleteAccount(ctx context.Context, actor Actor) error {
	user, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("get user %s: %w", actor.ID.String(), err)
	}
	if user == nil {
		return apperr.NotFound("user %s not found", actor.ID.String())
	}

	hasFuture, err := s.repo.Ticket.ExistsFutureByUser(ctx, actor.ID, s.clock.Now())
	if err != nil {
		return fmt.Errorf("check future tickets of user %s: %w", actor.ID.String(), err)
	}
	if hasFuture {
		return apperr.StateConflict("cannot delete an account holding tickets for upcoming sessions")
	}

	if err := s.repo.User.Delete(ctx, actor.ID); err != nil {
		return fmt.Errorf("delete user %s: %w", actor.ID.String(), err)
	}

	s.log.Info("Account deleted", zap.String("user_id", actor.ID.String()))
	return nil
}
