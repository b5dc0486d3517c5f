package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"yatube/internal/database"
	"yatube/internal/logging"
	"yatube/internal/models"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session_token"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmailExists     = errors.New("email already exists")
	ErrUsernameExists  = errors.New("username already exists")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// Service регистрирует пользователей и управляет их сессиями.
type Service struct {
	store        *database.Store
	sessionTTL   time.Duration
	secureCookie bool
	now          func() time.Time
}

func NewService(store *database.Store, sessionTTL time.Duration, secureCookie bool) *Service {
	return &Service{store: store, sessionTTL: sessionTTL, secureCookie: secureCookie, now: time.Now}
}

// RegisterUser регистрирует нового пользователя. u.Password is the plain
// password on input and the bcrypt hash on return.
func (s *Service) RegisterUser(ctx context.Context, u *models.User) error {
	if err := s.takenError(ctx, u.Email, u.Username); err != nil {
		return err
	}

	hashedPassword, err := database.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("auth: failed to hash password: %w", err)
	}
	u.Password = hashedPassword

	if err := s.store.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent signup: ask again which field clashed
		if errors.Is(err, database.ErrDuplicate) {
			if takenErr := s.takenError(ctx, u.Email, u.Username); takenErr != nil {
				return takenErr
			}
			return ErrUsernameExists
		}
		return fmt.Errorf("auth: failed to insert user: %w", err)
	}
	return nil
}

// takenError reports ErrEmailExists or ErrUsernameExists when either is
// already registered, email first.
func (s *Service) takenError(ctx context.Context, email, username string) error {
	emailTaken, usernameTaken, err := s.store.UserTaken(ctx, email, username)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if emailTaken {
		return ErrEmailExists
	}
	if usernameTaken {
		return ErrUsernameExists
	}
	return nil
}

// LoginUser аутентифицирует пользователя и создает новую сессию.
// Старые сессии пользователя удаляются.
func (s *Service) LoginUser(ctx context.Context, login, password string) (*models.User, *models.Session, error) {
	user, err := s.store.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("auth: failed to query user: %w", err)
	}

	if err := database.CheckPasswordHash(user.Password, password); err != nil {
		logging.Ctx(ctx).Debug().Str("user", user.Username).Msg("password check failed")
		return nil, nil, ErrInvalidPassword
	}

	session, err := s.store.ReplaceSession(ctx, user.ID, uuid.NewString(), s.now().Add(s.sessionTTL))
	if err != nil {
		return nil, nil, fmt.Errorf("auth: %w", err)
	}
	return user, session, nil
}

// LogoutUser удаляет сессию из базы данных.
func (s *Service) LogoutUser(ctx context.Context, token string) error {
	err := s.store.DeleteSession(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// GetUserBySession проверяет сессию и возвращает пользователя.
func (s *Service) GetUserBySession(ctx context.Context, token string) (*models.User, error) {
	session, err := s.store.SessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("auth: failed to query session: %w", err)
	}

	if session.Expired(s.now()) {
		// Сессия истекла, удаляем ее из БД
		_ = s.store.DeleteSession(ctx, token)
		return nil, ErrSessionNotFound
	}

	user, err := s.store.UserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: failed to query user by session: %w", err)
	}
	return user, nil
}

// SetSessionCookie устанавливает HTTP-cookie для сессии.
func (s *Service) SetSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.Expires,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie очищает HTTP-cookie сессии.
func (s *Service) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey string

const userContextKey contextKey = "user"

func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// GetUserFromContext извлекает пользователя из контекста запроса; nil для анонимов.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
