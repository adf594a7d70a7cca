package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/wono/hostpanel/pkg/app"
	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/services/website/application/handlers"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
)

// WebsiteRoutes registers website template endpoints on the provided chi router.
// Lookups are public; mutations need a session.
func WebsiteRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	errs := errhttp.Writer{Log: a.Logger, Production: a.Config.IsProduction()}
	get := handlers.NewGetWebsiteHandler(svcs, errs)

	r.Route("/website", func(r chi.Router) {
		r.Get("/get-website/{companyName}", get.ByCompany)
		r.Get("/get-websites", get.Active)
		r.Get("/get-inactive-website", get.InactiveByCompany)
		r.Get("/get-inactive-website/{company}", get.InactiveByCompany)
		r.Get("/get-inactive-websites", get.Inactive)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/create-website", handlers.NewCreateWebsiteHandler(svcs, errs, a.Config.MaxRequestBytes).Execute)
			r.Patch("/edit-website", handlers.NewEditWebsiteHandler(svcs, errs, a.Config.MaxRequestBytes).Execute)
			r.Patch("/activate-website", handlers.NewActivateWebsiteHandler(svcs, errs).Execute)
		})
	})
}
