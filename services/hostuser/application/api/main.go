package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/wono/hostpanel/pkg/app"
	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/services/hostuser/application/handlers"
	appsvcs "github.com/wono/hostpanel/services/hostuser/application/services"
)

// ProfileRoutes registers the signed-in user's profile endpoints on the provided chi router.
func ProfileRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	errs := errhttp.Writer{Log: a.Logger, Production: a.Config.IsProduction()}

	r.Route("/profile", func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		r.Patch("/update-profile/{userId}", handlers.NewUpdateProfileHandler(svcs, errs).Execute)
		r.Patch("/verify-password/{userId}", handlers.NewVerifyPasswordHandler(svcs, errs).Execute)
		r.Patch("/change-password/{userId}", handlers.NewChangePasswordHandler(svcs, errs).Execute)
	})
}
