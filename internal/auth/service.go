package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/stockly/internal/errx"
	"github.com/rogerio-castellano/stockly/internal/models"
	"github.com/rogerio-castellano/stockly/internal/redissvc"
	"github.com/rogerio-castellano/stockly/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const (
	InvalidCredentialsMessage = "invalid credentials"
	EmailTakenMessage         = "email already registered"
	UnauthorizedMessage       = "Unauthorized"
)

// AuthService registers users, issues session tokens and revokes them.
type AuthService struct {
	users  repo.UserRepository
	tokens *Issuer
	store  redissvc.Store
}

func NewAuthService(users repo.UserRepository, tokens *Issuer, store redissvc.Store) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		store:  store,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the user and returns it together with a fresh token.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", errx.New(err, http.StatusInternalServerError, "failed to hash password")
	}

	now := time.Now().UTC()
	user, err := a.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return models.User{}, "", errx.New(err, http.StatusConflict, EmailTakenMessage)
		}
		return models.User{}, "", errx.New(err, http.StatusInternalServerError, "failed to register user")
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return models.User{}, "", errx.New(err, http.StatusInternalServerError, "failed to generate token")
	}
	return user, token, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", errx.New(err, http.StatusUnauthorized, InvalidCredentialsMessage)
		}
		return "", errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errx.New(err, http.StatusUnauthorized, InvalidCredentialsMessage)
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return "", errx.New(err, http.StatusInternalServerError, "could not generate token")
	}
	return token, nil
}

// Logout revokes the session's token until it would have expired anyway.
func (a *AuthService) Logout(ctx context.Context, s models.Session) error {
	return a.store.Revoke(ctx, s.TokenID, time.Until(s.ExpiresAt))
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (a *AuthService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	session, err := a.tokens.Parse(token)
	if err != nil {
		return models.Session{}, errx.New(err, http.StatusUnauthorized, UnauthorizedMessage)
	}

	revoked, err := a.store.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return models.Session{}, err
	}
	if revoked {
		return models.Session{}, errx.New(ErrInvalidToken, http.StatusUnauthorized, UnauthorizedMessage)
	}
	return session, nil
}
