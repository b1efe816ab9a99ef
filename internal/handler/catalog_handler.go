package handler

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hydroshop/storefront/internal/handler/middleware"
	"hydroshop/storefront/internal/service"
	"hydroshop/storefront/internal/storefront"
	"hydroshop/storefront/internal/view"
)

// HeaderPendingNavigation carries the destination of a navigation the client
// has started but not finished, so option links can already reflect it.
const HeaderPendingNavigation = "X-Pending-Navigation"

type CatalogHandler struct {
	catalog service.CatalogService
	i18n    storefront.I18n
	logger  *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, i18n storefront.I18n, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, i18n: i18n, logger: logger}
}

// page loads the shared layout. JSON requests skip it.
func (h *CatalogHandler) page(c *gin.Context) (view.Page, bool) {
	page := view.Page{Country: h.i18n.Country}
	if wantsJSON(c) {
		return page, true
	}
	layout, err := h.catalog.Layout(c.Request.Context(), middleware.GetSession(c).CartID())
	if err != nil {
		handleError(c, h.logger, err)
		return page, false
	}
	page.Layout = layout
	return page, true
}

func (h *CatalogHandler) Index(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	cols, err := h.catalog.FeaturedCollections(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	page.Page = cols
	render(c, "index.html", page, gin.H{"collections": cols})
}

// Collection serves one page when cursor is set, otherwise the first pages
// pages accumulated.
func (h *CatalogHandler) Collection(c *gin.Context) {
	var (
		handle = c.Param("handle")
		result *service.CollectionPage
		err    error
	)
	if cursor := c.Query("cursor"); cursor != "" {
		result, err = h.catalog.Collection(c.Request.Context(), handle, cursor)
	} else {
		pages, convErr := strconv.Atoi(c.DefaultQuery("pages", "1"))
		if convErr != nil {
			pages = 1
		}
		result, err = h.catalog.CollectionPages(c.Request.Context(), handle, pages)
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	page, ok := h.page(c)
	if !ok {
		return
	}
	page.Title = result.Collection.Title
	page.Description = view.Truncate(view.SEODescriptionLength, result.Collection.Description)
	page.Page = result
	render(c, "collection.html", page, result)
}

func (h *CatalogHandler) Product(c *gin.Context) {
	result, err := h.catalog.Product(
		c.Request.Context(),
		c.Request.URL.Path,
		c.Param("handle"),
		c.Request.URL.Query(),
		pendingNavigation(c),
	)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	page, ok := h.page(c)
	if !ok {
		return
	}
	page.Title = result.Product.Title
	page.Page = result
	render(c, "product.html", page, result)
}

// pendingNavigation returns the in-flight destination when it targets the page
// being rendered. Anything else is ignored.
func pendingNavigation(c *gin.Context) *url.URL {
	raw := c.GetHeader(HeaderPendingNavigation)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path != c.Request.URL.Path {
		return nil
	}
	return u
}
