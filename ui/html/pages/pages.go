// Package pages holds the storefront's templ components. The *_templ.go files
// are produced by `templ generate` from the .templ sources next to them.
package pages

//go:generate templ generate

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// Base is the data every page shares: notices, session flags and the CSRF
// token for forms.
type Base struct {
	Flash           string
	FlashError      string
	IsAuthenticated bool
	IsAdmin         bool
	Role            string
	CSRFToken       string
	CurrentYear     int
}

func price(v float64) string {
	return fmt.Sprintf("₹ %.2f", v)
}

// plainPrice formats a price for a number input.
func plainPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sweetAction(id, action string) templ.SafeURL {
	return templ.URL("/u/sweets/" + url.PathEscape(id) + "/" + action)
}
