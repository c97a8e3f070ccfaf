package routes

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

func GetSession(r *http.Request) *domain.Session {
	s, _ := r.Context().Value(SessionCtxKey).(*domain.Session)
	return s
}

// SessionCtx puts the session found in the request cookie, if any, into the context.
func (routes *Routes) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := routes.sessions.Load(r)
		if s == nil {
			next.ServeHTTP(w, r)
			return
		}
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user", s.Username)
		})
		ctx := context.WithValue(r.Context(), SessionCtxKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// EnforceUser redirects to the login page unless a registered user is logged in.
// The admin pseudo-account has no user id, so it's redirected too.
func (routes *Routes) EnforceUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if s == nil || s.UserID == nil {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EnforceAdmin redirects anonymous visitors to the login page and
// refuses logged in users without the admin capability.
func (routes *Routes) EnforceAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if s == nil {
			redirectToLogin(w, r)
			return
		}
		if !s.IsAdmin {
			routes.HandleErr(w, r, &ErrForbidden{Cause: domain.ErrForbidden})
			return
		}
		next.ServeHTTP(w, r)
	})
}
