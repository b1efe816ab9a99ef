package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hydroshop/storefront/internal/catalog"
	"hydroshop/storefront/internal/config"
	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/optimistic"
	"hydroshop/storefront/internal/service"
	"hydroshop/storefront/internal/session"
	"hydroshop/storefront/internal/storefront"
	"hydroshop/storefront/internal/view"
	"hydroshop/storefront/pkg/crypto"
)

type fakeCatalog struct {
	layoutCartID string
	cursor       string
	pages        int
	collection   *service.CollectionPage
	product      *service.ProductPage
	productQuery url.Values
	pending      *url.URL
	err          error
}

func (f *fakeCatalog) Layout(_ context.Context, cartID string) (*service.Layout, error) {
	f.layoutCartID = cartID
	return &service.Layout{Shop: &model.Shop{Name: "Hydrogen"}}, nil
}

func (f *fakeCatalog) FeaturedCollections(context.Context) ([]model.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Collection{{Title: "Freestyle", Handle: "freestyle"}}, nil
}

func (f *fakeCatalog) Collection(_ context.Context, _ string, cursor string) (*service.CollectionPage, error) {
	f.cursor = cursor
	return f.collection, f.err
}

func (f *fakeCatalog) CollectionPages(_ context.Context, _ string, pages int) (*service.CollectionPage, error) {
	f.pages = pages
	return f.collection, f.err
}

func (f *fakeCatalog) Product(_ context.Context, _, _ string, query url.Values, pending *url.URL) (*service.ProductPage, error) {
	f.productQuery = query
	f.pending = pending
	return f.product, f.err
}

type fakeCarts struct {
	cartID string
	form   service.CartForm
	result *model.CartResult
	view   optimistic.CartView
	err    error
}

func (f *fakeCarts) Cart(_ context.Context, cartID string) (optimistic.CartView, error) {
	f.cartID = cartID
	return f.view, f.err
}

func (f *fakeCarts) Apply(_ context.Context, cartID string, form service.CartForm) (*model.CartResult, error) {
	f.cartID = cartID
	f.form = form
	return f.result, f.err
}

type testServer struct {
	router  *gin.Engine
	catalog *fakeCatalog
	carts   *fakeCarts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	keys, err := crypto.DeriveCookieKeys("test-secret")
	require.NoError(t, err)
	sessions := session.NewCookieManager(session.Options{CookieName: "session", MaxAge: time.Hour, Keys: keys})

	tmpl, err := view.Templates()
	require.NoError(t, err)

	ts := &testServer{
		catalog: &fakeCatalog{},
		carts:   &fakeCarts{result: &model.CartResult{}},
	}
	logger := zap.NewNop()
	ts.router = SetupRouter(
		&config.Config{},
		logger,
		tmpl,
		sessions,
		NewCatalogHandler(ts.catalog, storefront.I18n{Country: "US", Language: "EN"}, logger),
		NewCartHandler(ts.carts, ts.catalog, sessions, logger),
	)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func jsonGet(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "application/json")
	return req
}

func cartPost(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCartMutate_StoresCartIDInSession(t *testing.T) {
	ts := newTestServer(t)
	ts.carts.result = &model.CartResult{Cart: &model.Cart{ID: "gid://cart/1", TotalQuantity: 2}}

	w := ts.do(cartPost(url.Values{
		"cartAction":  {service.CartActionAdd},
		"countryCode": {"US"},
		"lines":       {`[{"merchandiseId":"v1","quantity":2}]`},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", ts.carts.cartID)
	assert.Equal(t, service.CartActionAdd, ts.carts.form.Action)
	assert.Equal(t, "US", ts.carts.form.CountryCode)
	assert.Equal(t, `[{"merchandiseId":"v1","quantity":2}]`, ts.carts.form.Lines)

	body := decode(t, w)
	assert.Equal(t, "gid://cart/1", body["cart"].(map[string]any)["id"])
	assert.Equal(t, []any{}, body["errors"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// The next request carries the cart id from the cookie.
	ts.carts.result = &model.CartResult{Cart: &model.Cart{ID: "gid://cart/2"}}
	req := cartPost(url.Values{"cartAction": {service.CartActionRemove}, "linesIds": {`["l1"]`}})
	req.AddCookie(cookies[0])
	w = ts.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gid://cart/1", ts.carts.cartID)
	assert.Equal(t, `["l1"]`, ts.carts.form.LineIDs)

	// The replaced id is what the session holds afterwards.
	req = jsonGet("/cart")
	req.AddCookie(w.Result().Cookies()[0])
	ts.do(req)
	assert.Equal(t, "gid://cart/2", ts.carts.cartID)
}

func TestCartMutate_UserErrorsPassThrough(t *testing.T) {
	ts := newTestServer(t)
	ts.carts.result = &model.CartResult{Errors: []model.CartUserError{{Message: "sold out", Field: []string{"lines"}}}}

	w := ts.do(cartPost(url.Values{"cartAction": {service.CartActionAdd}, "lines": {`[{"merchandiseId":"v1"}]`}}))
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Nil(t, body["cart"])
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "sold out", errs[0].(map[string]any)["message"])
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestCartMutate_FormPostRedirects(t *testing.T) {
	tests := []struct {
		name     string
		referer  string
		location string
	}{
		{"back to product", "http://example.com/products/shirt?Size=M", "/products/shirt?Size=M"},
		{"no referer", "", "/cart"},
		{"foreign referer", "https://evil.test/phish", "/cart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.carts.result = &model.CartResult{Cart: &model.Cart{ID: "gid://cart/1"}}

			req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(url.Values{
				"cartAction": {service.CartActionAdd},
				"lines":      {`[{"merchandiseId":"v1","quantity":1}]`},
			}.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Accept", "text/html,application/xhtml+xml")
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			w := ts.do(req)

			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			require.Len(t, w.Result().Cookies(), 1, "session is committed before redirecting")

			next := jsonGet("/cart")
			next.AddCookie(w.Result().Cookies()[0])
			ts.do(next)
			assert.Equal(t, "gid://cart/1", ts.carts.cartID)
		})
	}
}

func TestCartMutate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid action", fmt.Errorf("%w: %q", service.ErrInvalidCartAction, "NOPE"), http.StatusBadRequest},
		{"no lines to remove", service.ErrNoLinesToRemove, http.StatusBadRequest},
		{"no cart", service.ErrNoCart, http.StatusBadRequest},
		{"remote failure", errors.New("remote down"), http.StatusInternalServerError},
		{"missing storefront", service.ErrMissingStorefront, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.carts.err = tc.err

			w := ts.do(cartPost(url.Values{"cartAction": {"NOPE"}}))
			assert.Equal(t, tc.status, w.Code)
			assert.EqualValues(t, tc.status, decode(t, w)["code"])
			assert.Empty(t, w.Header().Get("Set-Cookie"))
		})
	}
}

func TestCartShow_JSON(t *testing.T) {
	ts := newTestServer(t)
	ts.carts.view = optimistic.CartView{
		Cart:          &model.Cart{ID: "c1", CheckoutURL: "https://shop.test/c"},
		TotalQuantity: 1,
		Subtotal:      model.Money{Amount: "10.0", CurrencyCode: "USD"},
		Updating:      true,
	}

	w := ts.do(jsonGet("/cart"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["totalQuantity"])
	assert.Equal(t, true, body["updating"])
	assert.Equal(t, "https://shop.test/c", body["checkoutUrl"])
}

func TestCartShow_HTMLEmpty(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your cart is empty")
}

func TestIndex_HTML(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Hydrogen")
	assert.Contains(t, w.Body.String(), "/collections/freestyle")
}

func TestIndex_JSON(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(jsonGet("/"))
	require.Equal(t, http.StatusOK, w.Code)
	cols := decode(t, w)["collections"].([]any)
	require.Len(t, cols, 1)
	assert.Equal(t, "freestyle", cols[0].(map[string]any)["handle"])
}

func testCollection(description string) *service.CollectionPage {
	return &service.CollectionPage{
		Collection: &model.Collection{Title: "Freestyle", Handle: "freestyle", Description: description},
		Grid:       &catalog.Grid{HasNextPage: true, EndCursor: "abc"},
		Pages:      1,
	}
}

func TestCollection_Pagination(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.collection = testCollection("")

	w := ts.do(jsonGet("/collections/freestyle?cursor=abc"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", ts.catalog.cursor)
	grid := decode(t, w)["grid"].(map[string]any)
	assert.Equal(t, true, grid["hasNextPage"])

	ts.do(jsonGet("/collections/freestyle?pages=3"))
	assert.Equal(t, 3, ts.catalog.pages)

	ts.do(jsonGet("/collections/freestyle?pages=lots"))
	assert.Equal(t, 1, ts.catalog.pages)
}

func TestCollection_SEO(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.collection = testCollection(strings.Repeat("a", 200))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/collections/freestyle", nil))
	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, "<title>Freestyle</title>")
	assert.Contains(t, out, `content="`+strings.Repeat("a", view.SEODescriptionLength)+`"`)
}

func TestCollection_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.err = fmt.Errorf("collection %q: %w", "nope", service.ErrNotFound)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/collections/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProduct_PassesQueryAsSelectedOptions(t *testing.T) {
	ts := newTestServer(t)
	variant := &model.ProductVariant{ID: "v1", AvailableForSale: true}
	ts.catalog.product = &service.ProductPage{
		Product:         &model.Product{Title: "Board", Handle: "board"},
		SelectedVariant: variant,
		Orderable:       true,
	}

	w := ts.do(httptest.NewRequest(http.MethodGet, "/products/board?Size=154cm", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "154cm", ts.catalog.productQuery.Get("Size"))
	assert.Contains(t, w.Body.String(), "<title>Board</title>")
	assert.Contains(t, w.Body.String(), `name="countryCode" value="US"`)
}

func TestProduct_PendingNavigation(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantURL string
	}{
		{"same product", "/products/board?Size=158cm", "/products/board?Size=158cm"},
		{"other page", "/products/skis?Size=158cm", ""},
		{"absent", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.catalog.product = &service.ProductPage{Product: &model.Product{Title: "Board"}}

			req := jsonGet("/products/board?Size=154cm")
			if tt.header != "" {
				req.Header.Set(HeaderPendingNavigation, tt.header)
			}
			w := ts.do(req)
			require.Equal(t, http.StatusOK, w.Code)

			if tt.wantURL == "" {
				assert.Nil(t, ts.catalog.pending)
				return
			}
			require.NotNil(t, ts.catalog.pending)
			assert.Equal(t, tt.wantURL, ts.catalog.pending.String())
		})
	}
}

func TestProduct_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.err = service.ErrNotFound

	w := ts.do(jsonGet("/products/nope"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
