package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/wono/hostpanel/pkg/httpx"
	"github.com/wono/hostpanel/pkg/logger"
)

// Session layout written by the sign-in service that shares this Redis store.
const (
	SessionName         = "hostpanel_session"
	SessionUserIDKey    = "user_id"
	SessionCompanyIDKey = "company_id"
	SessionRoleKey      = "role"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, builds the Principal, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a user id or role.
//
// After this middleware, handlers can safely call auth.PrincipalFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}

			userIDStr, ok := session.Values[SessionUserIDKey].(string)
			if !ok || userIDStr == "" {
				log.WarnContext(r.Context(), "session missing user_id")
				httpx.JSONError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid user_id in session", "user_id", userIDStr, "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}

			roleStr, _ := session.Values[SessionRoleKey].(string)
			role := Role(roleStr)
			if !role.Valid() {
				log.WarnContext(r.Context(), "invalid role in session", "role", roleStr)
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}

			companyID, _ := session.Values[SessionCompanyIDKey].(string)

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:    userID,
				CompanyID: companyID,
				Role:      role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
