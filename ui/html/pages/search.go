package pages

import "github.com/kayden-vs/katasweets/internal/models"

// SearchFilters are the raw query parameters of the search page, kept as
// strings so the form can redisplay them.
type SearchFilters struct {
	Name     string
	Category string
	MinPrice string
	MaxPrice string
}

type CategoryFormParams struct {
	Name        string
	FieldErrors map[string]string
}

type SweetFormParams struct {
	Name        string
	Category    string
	Price       string
	Quantity    string
	FieldErrors map[string]string
}

type SearchParams struct {
	Filters      SearchFilters
	FilterErrors map[string]string
	Categories   []models.Category
	Sweets       []models.Sweet
	Loaded       bool // false when the sweets could not be fetched
	CategoryForm CategoryFormParams
	SweetForm    SweetFormParams
	ReturnQuery  string // filters to restore after a form post
}
