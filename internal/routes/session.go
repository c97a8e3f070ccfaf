package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

const SessionCookieName = "mascotas_session"

type sessionClaims struct {
	UserID   *int   `json:"uid,omitempty"`
	Username string `json:"usr"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"adm"`
	jwt.RegisteredClaims
}

// SessionManager stores the session in a signed cookie.
// There's nothing server side: logging out just drops the cookie.
type SessionManager struct {
	key    []byte
	secure bool
}

func NewSessionManager(key []byte, secure bool) *SessionManager {
	return &SessionManager{key: key, secure: secure}
}

func (m *SessionManager) Encode(s *domain.Session) (string, error) {
	claims := sessionClaims{
		UserID:   s.UserID,
		Username: s.Username,
		Role:     string(s.Role),
		IsAdmin:  s.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) Decode(value string) (*domain.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session")
	}
	return &domain.Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     domain.Role(claims.Role),
		IsAdmin:  claims.IsAdmin,
	}, nil
}

// Load returns the session of the request, or nil if there's no valid one.
func (m *SessionManager) Load(r *http.Request) *domain.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	s, err := m.Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return s
}

func (m *SessionManager) Save(w http.ResponseWriter, s *domain.Session) error {
	value, err := m.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
