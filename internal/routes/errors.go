package routes

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

type AppError interface {
	error
	Status() int
	Motivation() string
}

type ErrInternal struct {
	Message string
	Cause   error
}

func (e *ErrInternal) Error() string {
	if e.Cause == nil {
		return e.Motivation()
	}
	return e.Cause.Error()
}
func (e *ErrInternal) Unwrap() error { return e.Cause }
func (e *ErrInternal) Status() int   { return http.StatusInternalServerError }
func (e *ErrInternal) Motivation() string {
	if e.Message == "" {
		return "Internal server error"
	}
	return e.Message
}

type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause == nil {
		return e.Motivation()
	}
	return e.Cause.Error()
}
func (e *ErrBadRequest) Unwrap() error { return e.Cause }
func (e *ErrBadRequest) Status() int   { return http.StatusBadRequest }
func (e *ErrBadRequest) Motivation() string {
	if e.Message == "" {
		return "Bad request"
	}
	return e.Message
}

type ErrForbidden struct {
	Cause error
}

func (e *ErrForbidden) Error() string      { return e.Cause.Error() }
func (e *ErrForbidden) Unwrap() error      { return e.Cause }
func (e *ErrForbidden) Status() int        { return http.StatusForbidden }
func (e *ErrForbidden) Motivation() string { return "No autorizado" }

type ErrNotFound struct {
	Cause error
}

func (e *ErrNotFound) Error() string      { return e.Cause.Error() }
func (e *ErrNotFound) Unwrap() error      { return e.Cause }
func (e *ErrNotFound) Status() int        { return http.StatusNotFound }
func (e *ErrNotFound) Motivation() string { return "No encontrado" }

// toAppError maps domain errors to the response they deserve
func toAppError(err error) AppError {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return &ErrBadRequest{Message: validationErr.Message, Cause: err}
	case errors.Is(err, domain.ErrForbidden):
		return &ErrForbidden{Cause: err}
	case errors.Is(err, domain.ErrNotFound):
		return &ErrNotFound{Cause: err}
	default:
		return &ErrInternal{Cause: err}
	}
}

func (routes *Routes) HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(err)
	status := appErr.Status()

	event := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
	}
	event.
		Str("request_id", middleware.GetReqID(r.Context())).
		Int("status", status).
		Err(err).
		Msg(appErr.Motivation())

	http.Error(w, appErr.Motivation(), status)
}

func (routes *Routes) AppHandler(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}
		routes.HandleErr(w, r, err)
	}
}
