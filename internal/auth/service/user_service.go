package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AnthoniusHendriyanto/realm-auth/config"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the user does not exist, so a missing
// account costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("realm-auth-missing-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("generate dummy hash: %v", err))
	}
	return h
})

const defaultLoginWindow = 15 * time.Minute

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenCodec
	limiter      domain.LoginLimiter
	logger       logging.Logger
	tokenTTL     time.Duration
	maxAttempts  int
	window       time.Duration
}

func NewUserService(repo domain.UserRepository, tokenService TokenCodec, limiter domain.LoginLimiter,
	cfg *config.Config, logger logging.Logger) *UserService {
	ttl := time.Duration(cfg.TokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	window := time.Duration(cfg.LoginWindowMinutes) * time.Minute
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		limiter:      limiter,
		logger:       logger.With("component", "authenticator"),
		tokenTTL:     ttl,
		maxAttempts:  cfg.LoginMaxAttempts,
		window:       window,
	}
}

// Login verifies the credentials and returns a freshly signed token. An
// unknown user and a wrong password produce the same ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	if input.Realm == "" || input.Username == "" || input.Password == "" {
		return nil, autherror.ErrInvalidCredentials
	}

	// Count the attempt before checking the password; each concurrent guess
	// takes its own slot.
	key := attemptKey(input)
	if s.throttled() {
		attempts, err := s.limiter.Hit(ctx, key, s.window)
		if err != nil {
			return nil, fmt.Errorf("count login attempt: %w", err)
		}
		if attempts > s.maxAttempts {
			s.logger.Warn(ctx, "login throttled", "realm", input.Realm, "username", input.Username, "ip", input.IPAddress)
			return nil, autherror.ErrTooManyLoginAttempts
		}
	}

	user, err := s.repo.GetByRealmAndUsername(ctx, input.Realm, input.Username)
	if err != nil && !errors.Is(err, autherror.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash := dummyHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(input.Password)) != nil || user == nil {
		s.recordFailure(ctx, input)
		return nil, autherror.ErrInvalidCredentials
	}

	identity := domain.Identity{Realm: user.Realm, Username: user.Username}
	token, expiresAt, err := s.tokenService.Issue(identity, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.recordSuccess(ctx, input, key)

	return &dto.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *UserService) throttled() bool {
	return s.limiter != nil && s.maxAttempts > 0
}

func (s *UserService) recordFailure(ctx context.Context, input dto.LoginInput) {
	s.logger.Info(ctx, "login failed", "realm", input.Realm, "username", input.Username, "ip", input.IPAddress)
	s.audit(ctx, input, false)
}

func (s *UserService) recordSuccess(ctx context.Context, input dto.LoginInput, key string) {
	s.logger.Info(ctx, "login succeeded", "realm", input.Realm, "username", input.Username, "ip", input.IPAddress)
	s.audit(ctx, input, true)

	if s.throttled() {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to reset login attempts", "error", err)
		}
	}
}

func (s *UserService) audit(ctx context.Context, input dto.LoginInput, success bool) {
	attempt := domain.LoginAttempt{
		ID:          uuid.NewString(),
		Realm:       input.Realm,
		Username:    input.Username,
		IPAddress:   input.IPAddress,
		AttemptTime: time.Now(),
		Successful:  success,
	}
	if err := s.repo.RecordLoginAttempt(ctx, attempt); err != nil {
		s.logger.Warn(ctx, "failed to record login attempt", "error", err)
	}
}

func attemptKey(input dto.LoginInput) string {
	return input.Realm + "|" + input.Username + "|" + input.IPAddress
}
