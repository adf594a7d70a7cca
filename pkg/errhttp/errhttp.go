// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to StatusOf for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/httpx"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/telemetry"
	hostuserdomain "github.com/wono/hostpanel/services/hostuser/domain"
	websitedomain "github.com/wono/hostpanel/services/website/domain"
)

// WriteError maps err to an HTTP status code and writes a {"message": ...} response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, StatusOf(err), err.Error())
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge // 413

	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized // 401
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden // 403

	case errors.Is(err, websitedomain.ErrTemplateNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, websitedomain.ErrStaleRevision):
		return http.StatusConflict // 409
	case errors.Is(err, websitedomain.ErrTemplateAlreadyExists),
		errors.Is(err, websitedomain.ErrInvalidSearchKey),
		errors.Is(err, websitedomain.ErrCompanyNotRegistered),
		errors.Is(err, websitedomain.ErrImageLimitExceeded),
		errors.Is(err, websitedomain.ErrInvalidTemplate),
		errors.Is(err, websitedomain.ErrInvalidPayload):
		return http.StatusBadRequest // 400

	case errors.Is(err, hostuserdomain.ErrUserNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, hostuserdomain.ErrIncorrectPassword),
		errors.Is(err, hostuserdomain.ErrInvalidPassword),
		errors.Is(err, hostuserdomain.ErrInvalidProfile):
		return http.StatusBadRequest // 400

	default:
		return http.StatusInternalServerError // 500
	}
}

// Writer writes error responses for handlers. Server errors are logged with the
// request context, reported to Sentry, and masked in production.
type Writer struct {
	Log        logger.Logger
	Production bool
}

// Write maps err to a status and writes the JSON body.
func (e Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		if e.Log != nil {
			e.Log.ErrorContext(r.Context(), "request failed",
				"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
		}
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, e.Production))
}
