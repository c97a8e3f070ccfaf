package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

type credentialsForm struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

func (routes *Routes) AccountRouter(r chi.Router) {
	r.Get("/login", routes.GetLogin)
	r.Post("/login", routes.AppHandler(routes.PostLogin))
	r.Get("/registro", routes.GetSignup)
	r.Post("/registro", routes.AppHandler(routes.PostSignup))
	r.Get("/logout", routes.GetLogout)
}

func (routes *Routes) parseCredentials(r *http.Request) (credentialsForm, error) {
	form := credentialsForm{}
	if err := r.ParseForm(); err != nil {
		return form, &ErrBadRequest{Cause: err}
	}
	if err := routes.decoder.Decode(&form, r.PostForm); err != nil {
		return form, &ErrBadRequest{Cause: err}
	}
	return form, nil
}

func (routes *Routes) GetLogin(w http.ResponseWriter, r *http.Request) {
	routes.tmpls.RenderHTML(w, "login", routes.newPage(r))
}

func (routes *Routes) PostLogin(w http.ResponseWriter, r *http.Request) error {
	form, err := routes.parseCredentials(r)
	if err != nil {
		return err
	}
	s, err := routes.accounts.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		data := routes.newPage(r)
		data.Username = form.Username
		data.Error = "Usuario o contraseña incorrectos"
		routes.tmpls.RenderHTML(w, "login", data)
		return nil
	} else if err != nil {
		return err
	}

	if err := routes.sessions.Save(w, s); err != nil {
		return err
	}
	hlog.FromRequest(r).Info().Str("user", s.Username).Bool("admin", s.IsAdmin).Msg("Logged in")
	if s.IsAdmin {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
	return nil
}

func (routes *Routes) GetSignup(w http.ResponseWriter, r *http.Request) {
	routes.tmpls.RenderHTML(w, "registro", routes.newPage(r))
}

func (routes *Routes) PostSignup(w http.ResponseWriter, r *http.Request) error {
	form, err := routes.parseCredentials(r)
	if err != nil {
		return err
	}
	data := routes.newPage(r)
	data.Username = form.Username

	_, err = routes.accounts.Register(r.Context(), form.Username, form.Password)
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		data.Error = "El nombre de usuario ya existe"
	case errors.As(err, &validationErr):
		data.Error = validationErr.Message
	case err != nil:
		return err
	default:
		data.Username = ""
		data.Message = "Registro exitoso, ahora inicia sesión"
	}
	routes.tmpls.RenderHTML(w, "registro", data)
	return nil
}

func (routes *Routes) GetLogout(w http.ResponseWriter, r *http.Request) {
	routes.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
