package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/favourites-api/internal/auth"
	"github.com/spec-kit/favourites-api/internal/config"
	"github.com/spec-kit/favourites-api/internal/domain"
	"github.com/spec-kit/favourites-api/internal/events"
	"github.com/spec-kit/favourites-api/internal/repository"
	apperrors "github.com/spec-kit/favourites-api/pkg/util"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	maxItemIDLen   = 128
)

// RegisterInput is the registration request as seen by the store.
type RegisterInput struct {
	Username  string
	Password  string
	Password2 string
}

// UserService is the credential store: accounts, password checks and favourites.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int

	compare       func(hash, plain string) error
	dummyHashOnce sync.Once
	dummyHash     string
}

// UserDependencies encapsulates collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		compare:    auth.ComparePassword,
	}
}

// CreateUser validates and stores a new account and returns the confirmation message.
func (s *UserService) CreateUser(ctx context.Context, in RegisterInput) (string, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateCredentials(username, in.Password); err != nil {
		return "", err
	}
	if in.Password2 != "" && in.Password2 != in.Password {
		return "", apperrors.NewValidationError("Passwords do not match")
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", mapStoreError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, user.Username, nil))
	return fmt.Sprintf("User %s successfully registered", user.Username), nil
}

// Authenticate returns the user whose password matches. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsCode(mapStoreError(err), apperrors.CodeNotFound) {
			// Same bcrypt work as a wrong password so response time does not reveal the username.
			_ = s.compare(s.fallbackHash(), password)
			return nil, invalidCredentials()
		}
		return nil, mapStoreError(err)
	}

	if err := s.compare(user.PasswordHash, password); err != nil {
		if !auth.IsMismatch(err) {
			s.logger.Error("stored password hash unreadable", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, invalidCredentials()
	}
	return user, nil
}

// GetFavourites lists the user's favourite item ids.
func (s *UserService) GetFavourites(ctx context.Context, identity domain.Identity) ([]string, error) {
	favourites, err := s.users.GetFavourites(ctx, identity.UserID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return favourites, nil
}

// AddFavourite adds itemID to the set and returns the resulting list.
func (s *UserService) AddFavourite(ctx context.Context, identity domain.Identity, itemID string) ([]string, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	favourites, err := s.users.AddFavourite(ctx, identity.UserID, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventFavouriteAdded, identity.UserID, identity.Username,
		events.FavouritePayload{ItemID: itemID, Count: len(favourites)}))
	return favourites, nil
}

// RemoveFavourite removes itemID from the set; removing an absent id is a no-op.
func (s *UserService) RemoveFavourite(ctx context.Context, identity domain.Identity, itemID string) ([]string, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	favourites, err := s.users.RemoveFavourite(ctx, identity.UserID, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventFavouriteRemoved, identity.UserID, identity.Username,
		events.FavouritePayload{ItemID: itemID, Count: len(favourites)}))
	return favourites, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// fallbackHash is a hash at the configured cost that no password is expected to match.
func (s *UserService) fallbackHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := auth.HashPassword(uuid.NewString(), s.bcryptCost)
		if err != nil {
			s.logger.Error("build fallback password hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func invalidCredentials() error {
	return apperrors.NewInvalidCredentials("Incorrect username or password")
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return apperrors.NewValidationError("username and password are required")
	}
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return apperrors.NewValidationError(fmt.Sprintf("username must be %d-%d characters", minUsernameLen, maxUsernameLen))
	}
	for _, r := range username {
		if !(r == '_' || r == '.' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return apperrors.NewValidationError("username may contain letters, digits, '_', '.' and '-' only")
		}
	}
	if len(password) > auth.MaxPasswordBytes {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}
	return nil
}

func validateItemID(itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return apperrors.NewValidationError("item id is required")
	}
	if len(itemID) > maxItemIDLen {
		return apperrors.NewValidationError(fmt.Sprintf("item id must be at most %d characters", maxItemIDLen))
	}
	return nil
}
