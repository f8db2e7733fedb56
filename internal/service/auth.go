package service

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pulsepost-dev/pulsepost/internal/config"
	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/errors"
	"github.com/pulsepost-dev/pulsepost/internal/logger"
)

type AuthService interface {
	Register(username, email, password string) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	ResolveActor(token string) (*domain.User, error)
}

// AuthResult pairs the public user projection with a freshly issued token.
type AuthResult struct {
	User  domain.Public `json:"user"`
	Token string        `json:"token"`
}

type Auth struct {
	storage   AuthStorage
	jwt       Jwt
	validator CredentialsValidator
	cfg       *config.Public
	now       func() time.Time
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdateLoginGuard(id domain.UserId, attempts int, lockUntil *time.Time) error
}

type Jwt interface {
	NewToken(userId domain.UserId) (string, error)
	VerifyToken(token string) (domain.UserId, error)
}

type CredentialsValidator interface {
	Username(username string) error
	Email(email string) error
	Password(password string) error
}

// Same wording for unknown email and wrong password so callers can't
// probe which emails are registered.
var errInvalidCredentials = &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

func NewAuth(storage AuthStorage, jwt Jwt, validator CredentialsValidator, cfg *config.Public) *Auth {
	return &Auth{
		storage:   storage,
		jwt:       jwt,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Register creates an account and logs it in. The email is stored
// lowercased; uniqueness is case-insensitive.
func (a *Auth) Register(username, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := a.validator.Username(username); err != nil {
		return nil, err
	}
	if err := a.validator.Email(email); err != nil {
		return nil, err
	}
	if err := a.validator.Password(password); err != nil {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return nil, err
	}

	id, err := a.storage.SaveUser(domain.User{
		Username: username,
		Email:    email,
		PassHash: string(passHash),
		Role:     domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	user, err := a.storage.UserById(id)
	if err != nil {
		return nil, err
	}

	token, err := a.jwt.NewToken(user.Id)
	if err != nil {
		logger.Log.Error("failed to create token", "user_id", user.Id, "error", err)
		return nil, err
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Login authenticates the credentials and enforces the brute-force guard.
// The lockout check runs before password comparison, so attempts during an
// active lock never touch the failure counter.
func (a *Auth) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := a.now()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if user.Locked(now) {
		return nil, &errors.ErrorWithStatusCode{Message: "Account locked. Try again later", StatusCode: http.StatusUnauthorized}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		if guardErr := a.recordFailure(&user, now); guardErr != nil {
			logger.Log.Error("failed to record login failure", "user_id", user.Id, "error", guardErr)
		}
		return nil, errInvalidCredentials
	}

	// success clears any expired lock and the failure counter
	if user.LoginAttempts != 0 || user.LockUntil != nil {
		if err := a.storage.UpdateLoginGuard(user.Id, 0, nil); err != nil {
			logger.Log.Error("failed to reset login guard", "user_id", user.Id, "error", err)
			return nil, err
		}
	}

	token, err := a.jwt.NewToken(user.Id)
	if err != nil {
		logger.Log.Error("failed to create token", "user_id", user.Id, "error", err)
		return nil, err
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// recordFailure advances the lock state machine on a wrong password.
// The first failure after an expired lock restarts the counter at 1;
// reaching the attempt limit opens a fresh lockout window.
func (a *Auth) recordFailure(user *domain.User, now time.Time) error {
	attempts := user.LoginAttempts + 1
	if user.LockUntil != nil && !user.LockUntil.After(now) {
		attempts = 1
	}

	var lockUntil *time.Time
	if attempts >= a.cfg.MaxLoginAttempts {
		t := now.Add(a.cfg.LockoutDuration)
		lockUntil = &t
		logger.Log.Warn("account locked after repeated failures", "user_id", user.Id, "lock_until", t)
	}

	return a.storage.UpdateLoginGuard(user.Id, attempts, lockUntil)
}

// ResolveActor verifies the token and re-resolves the account. The
// returned user never carries the password hash.
func (a *Auth) ResolveActor(token string) (*domain.User, error) {
	uid, err := a.jwt.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := a.storage.UserById(uid)
	if err != nil {
		if errors.IsNotFound(err) {
			// account deleted after the token was issued
			return nil, &errors.ErrorWithStatusCode{Message: "User no longer exists", StatusCode: http.StatusUnauthorized}
		}
		return nil, err
	}

	user.PassHash = ""
	return &user, nil
}
