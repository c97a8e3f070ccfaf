package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

func TestSessionEncode(t *testing.T) {
	require := require.New(t)
	m := NewSessionManager([]byte("key"), false)

	id := 7
	value, err := m.Encode(&domain.Session{UserID: &id, Username: "pippo", Role: domain.RoleUser})
	require.Nil(err)
	s, err := m.Decode(value)
	require.Nil(err)
	require.Equal(7, *s.UserID)
	require.Equal("pippo", s.Username)
	require.Equal(domain.RoleUser, s.Role)
	require.False(s.IsAdmin)

	value, err = m.Encode(&domain.Session{Username: "admin", Role: domain.RoleAdmin, IsAdmin: true})
	require.Nil(err)
	s, err = m.Decode(value)
	require.Nil(err)
	require.Nil(s.UserID)
	require.True(s.IsAdmin)

	// Signed with another key
	_, err = NewSessionManager([]byte("other"), false).Decode(value)
	require.NotNil(err)

	// Unsigned tokens are refused
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"adm": true}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.Nil(err)
	_, err = m.Decode(unsigned)
	require.NotNil(err)
}

func TestSessionCookie(t *testing.T) {
	require := require.New(t)
	m := NewSessionManager([]byte("key"), true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Nil(m.Load(req))

	id := 3
	rec := httptest.NewRecorder()
	require.Nil(m.Save(rec, &domain.Session{UserID: &id, Username: "pluto", Role: domain.RoleUser}))
	cookies := rec.Result().Cookies()
	require.Len(cookies, 1)
	require.Equal(SessionCookieName, cookies[0].Name)
	require.True(cookies[0].HttpOnly)
	require.True(cookies[0].Secure)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	s := m.Load(req)
	require.NotNil(s)
	require.Equal("pluto", s.Username)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	require.Nil(m.Load(req))

	rec = httptest.NewRecorder()
	m.Clear(rec)
	cookies = rec.Result().Cookies()
	require.Len(cookies, 1)
	require.Equal(-1, cookies[0].MaxAge)
}
