package main

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/kayden-vs/katasweets/internal/gateway"
	"github.com/kayden-vs/katasweets/internal/models"
	"github.com/kayden-vs/katasweets/internal/validator"
	"github.com/kayden-vs/katasweets/ui/html/pages"
)

type categoryCreateForm struct {
	Name                string `form:"name"`
	validator.Validator `form:"-"`
}

type sweetCreateForm struct {
	Name                string `form:"name"`
	Category            string `form:"category"`
	Price               string `form:"price"`
	Quantity            string `form:"quantity"`
	validator.Validator `form:"-"`
}

type sweetUpdateForm struct {
	Name                string `form:"name"`
	Price               string `form:"price"`
	Quantity            string `form:"quantity"`
	validator.Validator `form:"-"`
}

type quantityForm struct {
	Quantity            string `form:"quantity"`
	validator.Validator `form:"-"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type sweetRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func filtersFrom(q url.Values) pages.SearchFilters {
	return pages.SearchFilters{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
	}
}

// returnQuery recovers the search filters a form was posted from.
func returnQuery(r *http.Request) url.Values {
	q, err := url.ParseQuery(r.PostForm.Get("return"))
	if err != nil {
		return url.Values{}
	}
	return q
}

func (app *application) sweetSearch(w http.ResponseWriter, r *http.Request) {
	app.renderSearch(w, r, http.StatusOK, r.URL.Query(), pages.SearchParams{})
}

// renderSearch loads categories and matching sweets for the filters in q and
// renders the search page around props.
func (app *application) renderSearch(w http.ResponseWriter, r *http.Request, status int, q url.Values, props pages.SearchParams) {
	props.Filters = filtersFrom(q)
	props.ReturnQuery = q.Encode()

	if res := gateway.Get[[]models.Category](r.Context(), app.api, "/api/sweets/categories", "Loading categories"); res.OK() {
		props.Categories = res.Data
	}

	var v validator.Validator
	backend := url.Values{}
	if props.Filters.Name != "" {
		backend.Set("name", props.Filters.Name)
	}
	if props.Filters.Category != "" {
		backend.Set("category", props.Filters.Category)
	}
	for _, p := range []struct{ field, param, value string }{
		{"minPrice", "min_price", props.Filters.MinPrice},
		{"maxPrice", "max_price", props.Filters.MaxPrice},
	} {
		if p.value == "" {
			continue
		}
		n, err := strconv.ParseFloat(p.value, 64)
		v.CheckField(err == nil && validator.GreaterOrEqual(n, 0), p.field, "Enter a valid price")
		backend.Set(p.param, p.value)
	}
	props.FilterErrors = v.FieldErrors

	if v.Valid() {
		path := "/api/sweets/search"
		if len(backend) > 0 {
			path += "?" + backend.Encode()
		}
		if res := gateway.Get[[]models.Sweet](r.Context(), app.api, path, "Searching sweets"); res.OK() {
			props.Sweets = res.Data
			props.Loaded = true
		}
	} else {
		props.Loaded = true
	}

	app.RenderPage(w, r, status, func(base pages.Base) templ.Component {
		return pages.SearchPage(base, props)
	})
}

func (app *application) categoryCreatePost(w http.ResponseWriter, r *http.Request) {
	var form categoryCreateForm
	if err := app.decodePostForm(r, &form); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	form.CheckField(validator.MinChars(form.Name, 3), "name", "Category name must be at least 3 characters long")
	form.CheckField(validator.MaxChars(form.Name, 30), "name", "Category name cannot be more than 30 characters long")

	if form.Valid() {
		_, err := gateway.Post[models.Category](r.Context(), app.api, "/api/sweets/categories",
			categoryRequest{Name: form.Name}, "Adding category", "Category added successfully.")
		if err == nil {
			redirectBack(w, r)
			return
		}
	}

	app.renderSearch(w, r, http.StatusUnprocessableEntity, returnQuery(r), pages.SearchParams{
		CategoryForm: pages.CategoryFormParams{Name: form.Name, FieldErrors: form.FieldErrors},
	})
}

func (app *application) sweetCreatePost(w http.ResponseWriter, r *http.Request) {
	var form sweetCreateForm
	if err := app.decodePostForm(r, &form); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	price, priceErr := strconv.ParseFloat(form.Price, 64)
	quantity, quantityErr := strconv.Atoi(form.Quantity)

	form.CheckField(validator.MinChars(strings.TrimSpace(form.Name), 3), "name", "Name must be at least 3 characters long")
	form.CheckField(validator.NotBlank(form.Category), "category", "Please choose a category")
	form.CheckField(priceErr == nil && validator.GreaterOrEqual(price, 0), "price", "Price must be a number of at least 0")
	form.CheckField(quantityErr == nil && validator.GreaterOrEqual(quantity, 1), "quantity", "Quantity must be a whole number of at least 1")

	if form.Valid() {
		_, err := gateway.Post[models.Sweet](r.Context(), app.api, "/api/sweets", sweetRequest{
			Name:     strings.TrimSpace(form.Name),
			Category: form.Category,
			Price:    price,
			Quantity: quantity,
		}, "Adding sweet", "Sweet added successfully.")
		if err == nil {
			redirectBack(w, r)
			return
		}
	}

	app.renderSearch(w, r, http.StatusUnprocessableEntity, returnQuery(r), pages.SearchParams{
		SweetForm: pages.SweetFormParams{
			Name:        form.Name,
			Category:    form.Category,
			Price:       form.Price,
			Quantity:    form.Quantity,
			FieldErrors: form.FieldErrors,
		},
	})
}

func (app *application) sweetUpdatePost(w http.ResponseWriter, r *http.Request) {
	var form sweetUpdateForm
	if err := app.decodePostForm(r, &form); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	price, priceErr := strconv.ParseFloat(form.Price, 64)
	quantity, quantityErr := strconv.Atoi(form.Quantity)

	form.CheckField(validator.MinChars(strings.TrimSpace(form.Name), 3), "name", "Name must be at least 3 characters long")
	form.CheckField(priceErr == nil && validator.GreaterOrEqual(price, 0), "price", "Price must be a number of at least 0")
	form.CheckField(quantityErr == nil && validator.GreaterOrEqual(quantity, 1), "quantity", "Quantity must be a whole number of at least 1")

	if !form.Valid() {
		app.flash.Error(r.Context(), firstError(form.Validator, "name", "price", "quantity"))
		redirectBack(w, r)
		return
	}

	gateway.Put(r.Context(), app.api, sweetPath(r, ""), sweetRequest{
		Name:     strings.TrimSpace(form.Name),
		Price:    price,
		Quantity: quantity,
	}, "Updating sweet", "Sweet updated successfully.")

	redirectBack(w, r)
}

func (app *application) sweetDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	gateway.Delete(r.Context(), app.api, sweetPath(r, ""), "Deleting sweet", "Sweet deleted successfully.")

	redirectBack(w, r)
}

func (app *application) sweetPurchasePost(w http.ResponseWriter, r *http.Request) {
	app.quantityPost(w, r, "purchase", "Processing purchase", "Purchase successful.")
}

func (app *application) sweetRestockPost(w http.ResponseWriter, r *http.Request) {
	app.quantityPost(w, r, "restock", "Restocking", "Restocked successfully.")
}

// quantityPost handles the purchase and restock forms, which differ only in
// the backend action they call.
func (app *application) quantityPost(w http.ResponseWriter, r *http.Request, action, submitText, successText string) {
	var form quantityForm
	if err := app.decodePostForm(r, &form); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(form.Quantity)
	form.CheckField(err == nil && validator.GreaterOrEqual(quantity, 1), "quantity", "Quantity must be a whole number of at least 1")

	if !form.Valid() {
		app.flash.Error(r.Context(), form.FieldErrors["quantity"])
		redirectBack(w, r)
		return
	}

	// The gateway has already queued the failure notice.
	_, _ = gateway.Post[models.Sweet](r.Context(), app.api, sweetPath(r, action),
		quantityRequest{Quantity: quantity}, submitText, successText)

	redirectBack(w, r)
}

func sweetPath(r *http.Request, action string) string {
	p := "/api/sweets/" + url.PathEscape(chi.URLParam(r, "id"))
	if action != "" {
		p += "/" + action
	}
	return p
}

func firstError(v validator.Validator, keys ...string) string {
	for _, k := range keys {
		if msg, ok := v.FieldErrors[k]; ok {
			return msg
		}
	}
	return ""
}
