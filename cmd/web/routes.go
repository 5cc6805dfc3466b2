package main

import (
	"io/fs"
	stdlog "log"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/kayden-vs/katasweets/internal/session"
	"github.com/kayden-vs/katasweets/ui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  stdlog.New(app.logger, "", 0),
		NoColor: true,
	}))
	r.Use(secureHeaders)
	r.Use(session.DefaultGuard.Middleware)

	staticFS, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(staticFS))
	r.Handle("/static/*", http.StripPrefix("/static", fileServer))

	r.Get("/ping", ping)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(app.sessionManager.LoadAndSave)
		r.Use(app.flash.Track)
		r.Use(app.noSurf)
		r.Use(app.authenticate)

		r.Get("/", app.home)

		r.Get("/sign-up", app.userSignup)
		r.Post("/sign-up", app.userSignupPost)
		r.Get("/login", app.userLogin)
		r.Post("/login", app.userLoginPost)
		r.Post("/logout", app.userLogoutPost)

		r.Route("/u", func(r chi.Router) {
			r.Use(app.requireAuthentication)

			r.Get("/search", app.sweetSearch)
			r.Get("/profile", app.userProfile)

			r.Post("/categories", app.categoryCreatePost)
			r.Post("/sweets", app.sweetCreatePost)
			r.Post("/sweets/{id}/update", app.sweetUpdatePost)
			r.Post("/sweets/{id}/delete", app.sweetDeletePost)
			r.Post("/sweets/{id}/purchase", app.sweetPurchasePost)
			r.Post("/sweets/{id}/restock", app.sweetRestockPost)
		})

		r.NotFound(app.notFoundPage)
	})

	return r
}
