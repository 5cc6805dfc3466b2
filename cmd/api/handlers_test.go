package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kayden-vs/katasweets/internal/auth"
	"github.com/kayden-vs/katasweets/internal/models"
	"github.com/kayden-vs/katasweets/internal/models/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
}

func (r testResponse) message() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

type testAPI struct {
	t      *testing.T
	srv    *server
	tokens *auth.Issuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	categories := mocks.NewCategoryModel()
	srv := newServer(serverDeps{
		logger:     zerolog.Nop(),
		users:      mocks.NewUserModel(),
		categories: categories,
		sweets:     mocks.NewSweetModel(categories),
		tokens:     issuer,
	})
	return &testAPI{t: t, srv: srv, tokens: issuer}
}

func (a *testAPI) do(method, path, token string, body any) (int, testResponse) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.srv.router.ServeHTTP(rr, req)

	var resp testResponse
	require.NoError(a.t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr.Code, resp
}

func (a *testAPI) token(role string) string {
	a.t.Helper()
	tok, err := a.tokens.Issue(role+"@example.com", role)
	require.NoError(a.t, err)
	return tok
}

func decodeData[T any](t *testing.T, resp testResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	register := map[string]any{
		"username": "candyfan",
		"email":    "fan@example.com",
		"password": "Sup3r$ecret",
	}
	code, resp := api.do(http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "User successfully registered", resp.message())

	code, resp = api.do(http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "User already registered", resp.message())

	code, resp = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "whatever1",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", resp.message())

	code, resp = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "fan@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Incorrect password", resp.message())

	code, resp = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "fan@example.com", "password": "Sup3r$ecret",
	})
	require.Equal(t, http.StatusOK, code)
	tok := decodeData[models.Token](t, resp)
	assert.Equal(t, models.RoleUser, tok.Role)

	claims, err := api.tokens.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", claims.Subject)
}

func TestLoginAdminRole(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "shopkeeper",
		"email":    "boss@example.com",
		"password": "Adm1n!pass",
		"is_admin": true,
	})
	require.Equal(t, http.StatusOK, code)

	code, resp := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "boss@example.com", "password": "Adm1n!pass",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.RoleAdmin, decodeData[models.Token](t, resp).Role)
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	api := newTestAPI(t)

	code, resp := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "fail", resp.Status)
}

func TestRequireToken(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"missing", "", "Not authenticated"},
		{"wrong scheme", "Basic abc", "Invalid authentication credentials"},
		{"garbage token", "Bearer not.a.jwt", "Invalid authentication credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			api.srv.router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))

			var resp testResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.message())
		})
	}
}

func TestCategories(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(models.RoleUser)

	code, resp := api.do(http.MethodPost, "/api/sweets/categories", user, map[string]string{"name": "  Fudge  "})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Fudge", decodeData[models.Category](t, resp).Name)

	code, resp = api.do(http.MethodPost, "/api/sweets/categories", user, map[string]string{"name": "Fudge"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Category already exists.", resp.message())

	code, _ = api.do(http.MethodPost, "/api/sweets/categories", user, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = api.do(http.MethodPost, "/api/sweets/categories", user, map[string]string{"name": "Barfi"})
	require.Equal(t, http.StatusCreated, code)

	code, resp = api.do(http.MethodGet, "/api/sweets/categories", user, nil)
	require.Equal(t, http.StatusOK, code)
	categories := decodeData[[]models.Category](t, resp)
	require.Len(t, categories, 2)
	assert.Equal(t, "Barfi", categories[0].Name)
	assert.Equal(t, "Fudge", categories[1].Name)
}

func seedSweets(t *testing.T, api *testAPI, token string) map[string]models.Sweet {
	t.Helper()

	for _, name := range []string{"Chocolate", "Indian"} {
		code, _ := api.do(http.MethodPost, "/api/sweets/categories", token, map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, code)
	}

	out := map[string]models.Sweet{}
	for _, s := range []map[string]any{
		{"name": "Truffle", "category": "Chocolate", "price": 4.5, "quantity": 10},
		{"name": "Ladoo", "category": "Indian", "price": 1.25, "quantity": 2},
		{"name": "Dark Bar", "category": "cat-1", "price": 8.0, "quantity": 0},
	} {
		code, resp := api.do(http.MethodPost, "/api/sweets", token, s)
		require.Equal(t, http.StatusCreated, code, resp.message())
		sweet := decodeData[models.Sweet](t, resp)
		out[sweet.Name] = sweet
	}
	return out
}

func TestCreateSweet(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(models.RoleUser)
	sweets := seedSweets(t, api, user)

	assert.Equal(t, "Chocolate", sweets["Truffle"].Category.Name)
	assert.Equal(t, "Chocolate", sweets["Dark Bar"].Category.Name, "category resolved by id")

	code, resp := api.do(http.MethodPost, "/api/sweets", user, map[string]any{
		"name": "Mochi", "category": "Japanese", "price": 3, "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", resp.message())

	code, _ = api.do(http.MethodPost, "/api/sweets", user, map[string]any{
		"name": "Mochi", "category": "Chocolate", "price": -1, "quantity": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, resp = api.do(http.MethodGet, "/api/sweets", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeData[[]models.Sweet](t, resp), 3)
}

func TestSearchSweets(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(models.RoleUser)
	seedSweets(t, api, user)

	names := func(path string) []string {
		t.Helper()
		code, resp := api.do(http.MethodGet, path, user, nil)
		require.Equal(t, http.StatusOK, code, resp.message())
		var out []string
		for _, s := range decodeData[[]models.Sweet](t, resp) {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Dark Bar", "Ladoo", "Truffle"}, names("/api/sweets/search"))
	assert.Equal(t, []string{"Truffle"}, names("/api/sweets/search?name=truf"))
	assert.Equal(t, []string{"Dark Bar", "Truffle"}, names("/api/sweets/search?category=Chocolate"))
	assert.Equal(t, []string{"Truffle"}, names("/api/sweets/search?min_price=2&max_price=5"))
	assert.Empty(t, names("/api/sweets/search?category=Unknown"))

	code, _ := api.do(http.MethodGet, "/api/sweets/search?min_price=cheap", user, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestUpdateSweet(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(models.RoleUser)
	sweets := seedSweets(t, api, user)
	truffle := sweets["Truffle"]

	code, resp := api.do(http.MethodPut, "/api/sweets/"+truffle.ID, user, map[string]any{"price": 5.0})
	require.Equal(t, http.StatusOK, code, resp.message())
	updated := decodeData[models.Sweet](t, resp)
	assert.Equal(t, 5.0, updated.Price)
	assert.Equal(t, truffle.Name, updated.Name)
	assert.Equal(t, truffle.Quantity, updated.Quantity)

	code, resp = api.do(http.MethodPut, "/api/sweets/"+truffle.ID, user, map[string]any{"category": "Indian"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Indian", decodeData[models.Sweet](t, resp).Category.Name)

	code, resp = api.do(http.MethodPut, "/api/sweets/missing", user, map[string]any{"price": 1.0})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Sweet not found", resp.message())

	code, resp = api.do(http.MethodPut, "/api/sweets/"+truffle.ID, user, map[string]any{"category": "Nope"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", resp.message())
}

func TestDeleteSweetRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(models.RoleUser)
	admin := api.token(models.RoleAdmin)
	sweets := seedSweets(t, api, user)
	id := sweets["Ladoo"].ID

	code, resp := api.do(http.MethodDelete, "/api/sweets/"+id, user, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not authorized", resp.message())

	code, resp = api.do(http.MethodDelete, "/api/sweets/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Sweet successfully deleted", resp.message())

	code, _ = api.do(http.MethodDelete, "/api/sweets/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPurchaseAndRestock(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(models.RoleUser)
	admin := api.token(models.RoleAdmin)
	sweets := seedSweets(t, api, user)
	id := sweets["Ladoo"].ID

	code, resp := api.do(http.MethodPost, "/api/sweets/"+id+"/purchase", user, map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, code, resp.message())
	assert.Equal(t, 0, decodeData[models.Sweet](t, resp).Quantity)

	code, resp = api.do(http.MethodPost, "/api/sweets/"+id+"/purchase", user, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fail", resp.Status)

	code, _ = api.do(http.MethodPost, "/api/sweets/"+id+"/purchase", user, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = api.do(http.MethodPost, "/api/sweets/"+id+"/restock", user, map[string]int{"quantity": 5})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = api.do(http.MethodPost, "/api/sweets/"+id+"/restock", admin, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, decodeData[models.Sweet](t, resp).Quantity)

	code, _ = api.do(http.MethodPost, "/api/sweets/missing/purchase", user, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNoRoute(t *testing.T) {
	api := newTestAPI(t)

	code, resp := api.do(http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", resp.message())
}
