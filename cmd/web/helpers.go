package main

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-playground/form"
	"github.com/justinas/nosurf"
	"github.com/kayden-vs/katasweets/ui/html/pages"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("uri", r.URL.RequestURI()).
		Msg("Internal server error")

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFoundPage(w http.ResponseWriter, r *http.Request) {
	app.RenderPage(w, r, http.StatusNotFound, pages.NotFoundPage)
}

// newBase collects the data every page needs. It pops the queued notices, so
// it must only be called for a page that is about to be written.
func (app *application) newBase(r *http.Request) pages.Base {
	sess := currentSession(r)
	flash, flashError := app.flash.Pop(r.Context())

	return pages.Base{
		Flash:           flash,
		FlashError:      flashError,
		IsAuthenticated: sess.Authenticated(),
		IsAdmin:         sess.IsAdmin(),
		Role:            sess.Role,
		CSRFToken:       nosurf.Token(r),
		CurrentYear:     time.Now().Year(),
	}
}

// RenderPage renders the page into a buffer first so a template failure turns
// into a clean 500 instead of a half-written page.
func (app *application) RenderPage(w http.ResponseWriter, r *http.Request, status int, page func(base pages.Base) templ.Component) {
	buf := new(bytes.Buffer)

	if err := page(app.newBase(r)).Render(r.Context(), buf); err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (app *application) decodePostForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	err := app.formDecoder.Decode(dst, r.PostForm)
	if err != nil {
		var invalidDecoderError *form.InvalidDecoderError
		if errors.As(err, &invalidDecoderError) {
			panic(err)
		}
		return err
	}
	return nil
}

// redirectBack sends the browser back to the search page, keeping its filters
// when the form came from there.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/u/search"
	if q := r.PostForm.Get("return"); q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
