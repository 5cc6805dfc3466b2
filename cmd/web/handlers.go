package main

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/kayden-vs/katasweets/internal/gateway"
	"github.com/kayden-vs/katasweets/internal/models"
	"github.com/kayden-vs/katasweets/internal/session"
	"github.com/kayden-vs/katasweets/internal/validator"
	"github.com/kayden-vs/katasweets/ui/html/pages"
)

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	app.RenderPage(w, r, http.StatusOK, pages.HomePage)
}

type userSignupForm struct {
	Username            string `form:"username"`
	Email               string `form:"email"`
	Password            string `form:"password"`
	validator.Validator `form:"-"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) userSignup(w http.ResponseWriter, r *http.Request) {
	app.RenderPage(w, r, http.StatusOK, func(base pages.Base) templ.Component {
		return pages.SignupPage(base, pages.SignupFormParams{})
	})
}

func (app *application) userSignupPost(w http.ResponseWriter, r *http.Request) {
	var form userSignupForm
	err := app.decodePostForm(r, &form)
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	form.CheckField(validator.MinChars(form.Username, 6), "username", "Username must be at least 6 characters long")
	form.CheckField(validator.MaxChars(form.Username, 50), "username", "Username cannot be more than 50 characters long")
	form.CheckField(validator.Email(form.Email), "email", "Please enter a valid email")
	form.CheckField(validator.MinChars(form.Password, 8), "password", "Password must be at least 8 characters long")
	form.CheckField(validator.Matches(form.Password, validator.LowerRX), "password", "Password must contain at least one lowercase letter")
	form.CheckField(validator.Matches(form.Password, validator.UpperRX), "password", "Password must contain at least one uppercase letter")
	form.CheckField(validator.Matches(form.Password, validator.DigitRX), "password", "Password must contain at least one number")
	form.CheckField(validator.Matches(form.Password, validator.SpecialRX), "password", "Password must contain at least one special character")

	props := pages.SignupFormParams{
		Username: form.Username,
		Email:    form.Email,
	}

	// If there are any errors, redisplay the signup form along with a 422 status code.
	if !form.Valid() {
		props.FieldErrors = form.FieldErrors
		app.RenderPage(w, r, http.StatusUnprocessableEntity, func(base pages.Base) templ.Component {
			return pages.SignupPage(base, props)
		})
		return
	}

	_, err = gateway.Post[string](r.Context(), app.api, "/api/auth/register", registerRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	}, "Creating your account", "Account created successfully.")
	if err != nil {
		app.RenderPage(w, r, http.StatusUnprocessableEntity, func(base pages.Base) templ.Component {
			return pages.SignupPage(base, props)
		})
		return
	}

	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

type userLoginForm struct {
	Email               string `form:"email"`
	Password            string `form:"password"`
	validator.Validator `form:"-"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) userLogin(w http.ResponseWriter, r *http.Request) {
	app.RenderPage(w, r, http.StatusOK, func(base pages.Base) templ.Component {
		return pages.LoginPage(base, pages.LoginFormParams{})
	})
}

func (app *application) userLoginPost(w http.ResponseWriter, r *http.Request) {
	var form userLoginForm

	err := app.decodePostForm(r, &form)
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	form.CheckField(validator.Email(form.Email), "email", "Please enter a valid email")
	form.CheckField(validator.MinChars(form.Password, 8), "password", "Password must be at least 8 characters long")

	props := pages.LoginFormParams{Email: form.Email}
	render := func(status int) {
		props.FieldErrors = form.FieldErrors
		props.NonFieldErrors = form.NonFieldErrors
		app.RenderPage(w, r, status, func(base pages.Base) templ.Component {
			return pages.LoginPage(base, props)
		})
	}

	if !form.Valid() {
		render(http.StatusUnprocessableEntity)
		return
	}

	token, err := gateway.Post[models.Token](r.Context(), app.api, "/api/auth/login", loginRequest{
		Email:    form.Email,
		Password: form.Password,
	}, "Logging in", "Logged in successfully.")
	if err != nil {
		render(http.StatusUnprocessableEntity)
		return
	}

	err = app.sessions.Begin(r.Context(), w, token.Token, token.Role)
	if err != nil {
		if errors.Is(err, session.ErrPartialSession) {
			form.AddNonFieldError("The server returned an incomplete session. Please try again.")
			render(http.StatusBadGateway)
		} else {
			app.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/u/search", http.StatusSeeOther)
}

func (app *application) userLogoutPost(w http.ResponseWriter, r *http.Request) {
	err := app.sessions.Clear(r.Context(), w)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.flash.Success(r.Context(), "You've been logged out successfully!")
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

func (app *application) userProfile(w http.ResponseWriter, r *http.Request) {
	app.RenderPage(w, r, http.StatusOK, pages.ProfilePage)
}

func ping(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
