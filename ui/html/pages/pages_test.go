package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/kayden-vs/katasweets/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestEveryPageRenders(t *testing.T) {
	base := Base{CSRFToken: "tok", CurrentYear: 2026}

	tests := []struct {
		name  string
		page  templ.Component
		title string
	}{
		{"Home", HomePage(base), "Welcome"},
		{"Login", LoginPage(base, LoginFormParams{}), "Login"},
		{"Signup", SignupPage(base, SignupFormParams{}), "Sign Up"},
		{"Search", SearchPage(base, SearchParams{Loaded: true}), "Search Sweets"},
		{"Profile", ProfilePage(base), "Profile"},
		{"Not found", NotFoundPage(base), "Resource Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, tt.page)

			assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
			assert.Contains(t, out, "<title>"+tt.title+" - Kata Sweet Shop</title>")
			assert.Contains(t, out, "&copy; 2026 Kata Sweet Shop")
			assert.True(t, strings.HasSuffix(out, "</html>"))
		})
	}
}

func TestValuesAreEscaped(t *testing.T) {
	out := renderString(t, SearchPage(Base{IsAuthenticated: true, IsAdmin: true, CSRFToken: `a"b`}, SearchParams{
		Filters: SearchFilters{Name: `"><script>`},
		Sweets: []models.Sweet{
			{ID: "a b/c", Name: "<b>Fudge</b>", Category: models.Category{Name: "Tom & Jerry"}, Price: 3, Quantity: 1},
		},
		Loaded: true,
	}))

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>Fudge</b>")
	assert.Contains(t, out, "&lt;b&gt;Fudge&lt;/b&gt;")
	assert.Contains(t, out, "Tom &amp; Jerry")
	assert.Contains(t, out, `value="&#34;&gt;&lt;script&gt;"`)
	assert.Contains(t, out, `name="csrf_token" value="a&#34;b"`)
	assert.Contains(t, out, `action="/u/sweets/a%20b%2Fc/purchase"`)
}

func TestSelectedCategory(t *testing.T) {
	out := renderString(t, SearchPage(Base{IsAuthenticated: true, IsAdmin: true}, SearchParams{
		Filters:    SearchFilters{Category: "Indian"},
		Categories: []models.Category{{ID: "c1", Name: "Indian"}, {ID: "c2", Name: "French"}},
		SweetForm:  SweetFormParams{Category: "c2"},
		Loaded:     true,
	}))

	assert.Contains(t, out, `<option value="Indian" selected>Indian</option>`)
	assert.Contains(t, out, `<option value="French">French</option>`)
	assert.Contains(t, out, `<option value="c2" selected>French</option>`)
	assert.Contains(t, out, `<option value="c1">Indian</option>`)
}

func TestBaseLayout(t *testing.T) {
	out := renderString(t, HomePage(Base{
		Flash:      "Saved",
		FlashError: "Broken",
		CSRFToken:  "tok",
	}))

	assert.Contains(t, out, "<title>Welcome - Kata Sweet Shop</title>")
	assert.Contains(t, out, `<div class="flash success" role="status">Saved</div>`)
	assert.Contains(t, out, `<div class="flash error" role="alert">Broken</div>`)
	assert.Contains(t, out, `href="/sign-up"`)
	assert.NotContains(t, out, `action="/logout"`)
}

func TestNavForSignedInVisitor(t *testing.T) {
	out := renderString(t, ProfilePage(Base{IsAuthenticated: true, Role: "user", CSRFToken: "tok"}))

	assert.Contains(t, out, `action="/logout"`)
	assert.Contains(t, out, `href="/u/search"`)
	assert.Contains(t, out, "<strong>user</strong>")
	assert.NotContains(t, out, "Admin controls")
}

func TestSearchPage(t *testing.T) {
	sweets := []models.Sweet{
		{ID: "s1", Name: "Ladoo", Category: models.Category{ID: "c1", Name: "Indian"}, Price: 1.5, Quantity: 3},
		{ID: "s2", Name: "Mystery", Price: 2, Quantity: 0},
	}

	t.Run("Admin", func(t *testing.T) {
		out := renderString(t, SearchPage(Base{IsAuthenticated: true, IsAdmin: true, Role: "admin"}, SearchParams{
			Sweets: sweets,
			Loaded: true,
		}))

		assert.Contains(t, out, "₹ 1.50")
		assert.Contains(t, out, "N/A")
		assert.Contains(t, out, `action="/u/sweets/s1/delete"`)
		assert.Contains(t, out, `action="/u/sweets/s1/restock"`)
		assert.Contains(t, out, "Add sweet")
	})

	t.Run("User", func(t *testing.T) {
		out := renderString(t, SearchPage(Base{IsAuthenticated: true, Role: "user"}, SearchParams{
			Sweets: sweets,
			Loaded: true,
		}))

		assert.Contains(t, out, `action="/u/sweets/s1/purchase"`)
		assert.NotContains(t, out, `action="/u/sweets/s1/delete"`)
		assert.NotContains(t, out, "Add sweet")
	})

	t.Run("Empty", func(t *testing.T) {
		out := renderString(t, SearchPage(Base{}, SearchParams{Loaded: true}))
		assert.Contains(t, out, "No data found.")
	})

	t.Run("Not loaded", func(t *testing.T) {
		out := renderString(t, SearchPage(Base{}, SearchParams{}))
		assert.Contains(t, out, "Error loading data")
	})
}

func TestFormErrorsAreShown(t *testing.T) {
	out := renderString(t, LoginPage(Base{}, LoginFormParams{
		Email:          "a@b.c",
		FieldErrors:    map[string]string{"password": "Too short"},
		NonFieldErrors: []string{"Nope"},
	}))

	assert.Contains(t, out, `<label class="error">Too short</label>`)
	assert.Contains(t, out, `<div class="error">Nope</div>`)
	assert.Contains(t, out, `value="a@b.c"`)
}
