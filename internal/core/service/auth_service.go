package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// LoginLimiter abstracts the login attempt throttle (Redis).
type LoginLimiter interface {
	// Allow reports whether another attempt for username is permitted.
	Allow(ctx context.Context, username string) (bool, error)
}

// AuthService implements registration, login, and identity re-hydration.
// Tokens are stateless HS256 JWTs carrying only the subject id and username;
// there is no revocation list, logout is client-side token discard.
type AuthService struct {
	repo      ports.UserRepository
	limiter   LoginLimiter
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	limiter LoginLimiter,
	audit ports.AuditRecorder,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if audit == nil {
		audit = ports.NopRecorder{}
	}
	return &AuthService{
		repo:      repo,
		limiter:   limiter,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an account with role USER and returns it with a signed
// token. The pre-check below gives a friendly Conflict error; the unique
// indexes on username and email remain the real guarantee, so a concurrent
// duplicate still surfaces as domain.ErrUserExists from Create.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	if existing, err := s.repo.FindByUsernameOrEmail(ctx, in.Username, in.Email); err == nil && existing != nil {
		return nil, "", domain.ErrUserExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                        uuid.NewString(),
		Username:                  in.Username,
		Email:                     in.Email,
		PasswordHash:              string(hash),
		FirstName:                 in.FirstName,
		LastName:                  in.LastName,
		Phone:                     in.Phone,
		ReserveServiceDescription: in.ReserveServiceDescription,
		Role:                      domain.RoleUser,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	s.audit.Record(domain.AuditEntry{
		ActorID:   user.ID,
		Action:    domain.AuditRegister,
		Decision:  "success",
		CreatedAt: now,
	})

	return user, token, nil
}

// Login verifies the credentials and returns the account with a fresh token.
// Unknown username and wrong password both fail with
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, proceeding")
		} else if !ok {
			return nil, "", domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordLogin("", username, "failure")
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordLogin(user.ID, username, "failure")
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.recordLogin(user.ID, username, "success")
	return user, token, nil
}

// Validate resolves a token subject back to its account. A deleted account
// with a still-live token yields domain.ErrUserNotFound.
func (s *AuthService) Validate(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) recordLogin(userID, username, decision string) {
	s.audit.Record(domain.AuditEntry{
		ActorID:   userID,
		Action:    domain.AuditLogin,
		Decision:  decision,
		Detail:    username,
		CreatedAt: time.Now().UTC(),
	})
}

// generateToken signs the claims {sub, username, iat, exp}. Role is
// deliberately absent: the identity middleware re-reads the account on every
// request, so a role change can never be escalated through a stale token.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
