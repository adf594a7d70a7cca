package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
)

// authorizeUser parses {userId} and checks it belongs to the session.
// On failure the response has been written and ok is false.
func authorizeUser(w http.ResponseWriter, r *http.Request, errs errhttp.Writer) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid user id.")
		return uuid.Nil, false
	}
	if err := auth.RequireSameUser(r.Context(), id); err != nil {
		errs.Write(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}
