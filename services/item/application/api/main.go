package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemsvc/pkg/app"
	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	errs := errhttp.NewWriter(a.Logger, a.Config != nil && a.Config.IsProduction())

	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs, errs).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, errs).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs, errs).Execute)
	})
}
