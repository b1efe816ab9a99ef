package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hydroshop/storefront/internal/handler/middleware"
	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/service"
	"hydroshop/storefront/internal/session"
	"hydroshop/storefront/internal/view"
	"hydroshop/storefront/pkg/response"
)

type CartHandler struct {
	carts    service.CartService
	catalog  service.CatalogService
	sessions session.Manager
	logger   *zap.Logger
}

func NewCartHandler(carts service.CartService, catalog service.CatalogService, sessions session.Manager, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog, sessions: sessions, logger: logger}
}

// cartResponse is the JSON shape of GET /cart.
type cartResponse struct {
	Cart          *model.Cart      `json:"cart"`
	Lines         []model.CartLine `json:"lines"`
	TotalQuantity int              `json:"totalQuantity"`
	Subtotal      model.Money      `json:"subtotal"`
	Updating      bool             `json:"updating"`
	CheckoutURL   string           `json:"checkoutUrl,omitempty"`
}

func (h *CartHandler) Show(c *gin.Context) {
	cartID := middleware.GetSession(c).CartID()

	if wantsJSON(c) {
		v, err := h.carts.Cart(c.Request.Context(), cartID)
		if err != nil {
			handleError(c, h.logger, err)
			return
		}
		resp := cartResponse{
			Cart:          v.Cart,
			Lines:         v.Lines,
			TotalQuantity: v.TotalQuantity,
			Subtotal:      v.Subtotal,
			Updating:      v.Updating,
		}
		if v.Cart != nil {
			resp.CheckoutURL = v.Cart.CheckoutURL
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	layout, err := h.catalog.Layout(c.Request.Context(), cartID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.HTML(http.StatusOK, "cart.html", view.Page{Layout: layout, Title: "Cart"})
}

// Mutate runs the cart action submitted as a form. Fetch clients get the
// mutation result as JSON; plain form posts are sent back to the page they
// came from. The session is committed on every successful mutation, user
// errors included.
func (h *CartHandler) Mutate(c *gin.Context) {
	form := service.CartForm{
		Action:      c.PostForm("cartAction"),
		CountryCode: c.PostForm("countryCode"),
		Lines:       c.PostForm("lines"),
		LineIDs:     c.PostForm("linesIds"),
	}

	s := middleware.GetSession(c)
	result, err := h.carts.Apply(c.Request.Context(), s.CartID(), form)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	if result.Cart != nil && result.Cart.ID != "" {
		s.Set(session.KeyCartID, result.Cart.ID)
	}
	cookie, err := h.sessions.Commit(c.Request.Context(), s)
	if err != nil {
		h.logger.Error("session commit failed", zap.Error(err))
		response.InternalError(c, "session unavailable")
		return
	}
	http.SetCookie(c.Writer, cookie)
	h.logger.Debug("cart mutated",
		zap.String("session_id", s.ID()),
		zap.String("action", form.Action),
		zap.Int("user_errors", len(result.Errors)),
	)

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, backTo(c.Request))
		return
	}
	if result.Errors == nil {
		result.Errors = []model.CartUserError{}
	}
	c.JSON(http.StatusOK, result)
}

// backTo picks the redirect target after a form post: the referring page when
// it is on this host, the cart otherwise.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/cart"
	}
	return ref.RequestURI()
}
