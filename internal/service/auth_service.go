package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/favourites-api/internal/auth"
	"github.com/spec-kit/favourites-api/internal/domain"
	"github.com/spec-kit/favourites-api/internal/events"
	"github.com/spec-kit/favourites-api/internal/limiter"
	apperrors "github.com/spec-kit/favourites-api/pkg/util"
)

// AuthService coordinates login: throttling, credential checks and token issuance.
type AuthService struct {
	users      *UserService
	tokenMgr   *auth.TokenManager
	limiter    limiter.Limiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users        *UserService
	TokenManager *auth.TokenManager
	Limiter      limiter.Limiter
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	s := &AuthService{
		users:      deps.Users,
		tokenMgr:   deps.TokenManager,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
	if s.limiter == nil {
		s.limiter = limiter.Noop{}
	}
	if s.dispatcher == nil {
		s.dispatcher = events.NewInMemoryDispatcher()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Login authenticates the user and issues an access token.
// Limiter outages fail open: a Redis problem must not lock everyone out.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (domain.Token, error) {
	username = strings.TrimSpace(username)

	allowed, retry, err := s.limiter.Allow(ctx, username, ip)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return domain.Token{}, rateLimited(retry)
	}

	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeInvalidCredentials) {
			return domain.Token{}, err
		}
		blocked, retry, ferr := s.limiter.Failure(ctx, username, ip)
		if ferr != nil {
			s.logger.Warn("login limiter unavailable", zap.Error(ferr))
		}
		s.publish(ctx, events.NewEvent(events.EventLoginFailed, "", username,
			events.LoginFailedPayload{IP: ip, Blocked: blocked}))
		if blocked {
			return domain.Token{}, rateLimited(retry)
		}
		return domain.Token{}, err
	}

	if err := s.limiter.Success(ctx, username, ip); err != nil {
		s.logger.Warn("login limiter reset failed", zap.Error(err))
	}

	token, err := s.tokenMgr.Issue(user.ID, user.Username)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func rateLimited(retry time.Duration) error {
	msg := "too many failed login attempts"
	if retry > 0 {
		msg += ", retry in " + retry.Round(time.Second).String()
	}
	return apperrors.NewRateLimited(msg)
}
