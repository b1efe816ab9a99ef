package service

import (
	"context"
	"fmt"
	"sync"

	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/storefront"
)

// fakeStorefront is an in-memory remote API. Each mutation issues a new cart
// id, as the real API may.
type fakeStorefront struct {
	mu        sync.Mutex
	carts     map[string]*model.Cart
	seq       int
	calls     []string
	prices    map[string]string // merchandise id -> unit price
	userErrs  []model.CartUserError
	err       error
	shop      *model.Shop
	pages     map[string]*model.Collection // keyed by handle + "|" + cursor
	products  map[string]*model.Product
	lastInput model.CartInput

	// block, when set, holds every mutation until it is closed.
	block chan struct{}
	// entered receives once per mutation that reached the fake.
	entered chan struct{}
}

var _ storefront.Client = (*fakeStorefront)(nil)

func newFakeStorefront() *fakeStorefront {
	return &fakeStorefront{
		carts:    make(map[string]*model.Cart),
		prices:   map[string]string{"v1": "10.00", "v2": "25.50"},
		shop:     &model.Shop{Name: "Hydrogen"},
		pages:    make(map[string]*model.Collection),
		products: make(map[string]*model.Product),
	}
}

func (f *fakeStorefront) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeStorefront) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStorefront) waitMutation() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeStorefront) Domain() string { return "hydrogen-preview.myshopify.com" }

func (f *fakeStorefront) I18n() storefront.I18n {
	return storefront.I18n{Country: "US", Language: "EN"}
}

func (f *fakeStorefront) Shop(context.Context) (*model.Shop, error) {
	f.record("Shop")
	if f.err != nil {
		return nil, f.err
	}
	return f.shop, nil
}

func (f *fakeStorefront) Collections(context.Context, int) ([]model.Collection, error) {
	f.record("Collections")
	return []model.Collection{{ID: "c1", Handle: "freestyle", Title: "Freestyle"}}, f.err
}

func (f *fakeStorefront) Collection(_ context.Context, handle, cursor string) (*model.Collection, error) {
	f.record("Collection:" + cursor)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[handle+"|"+cursor], nil
}

func (f *fakeStorefront) Product(_ context.Context, handle string, selected []model.SelectedOption) (*model.Product, error) {
	f.record("Product")
	p := f.products[handle]
	if p == nil {
		return nil, f.err
	}
	cp := *p
	cp.SelectedVariant = nil
	for i, v := range p.Variants.Flatten() {
		if matches(v.SelectedOptions, selected) && len(selected) > 0 {
			vv := p.Variants.Flatten()[i]
			cp.SelectedVariant = &vv
		}
	}
	return &cp, f.err
}

func matches(have, want []model.SelectedOption) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeStorefront) Cart(_ context.Context, cartID string) (*model.Cart, error) {
	f.record("Cart")
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[cartID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStorefront) CartCreate(_ context.Context, input model.CartInput) (*model.CartResult, error) {
	f.record("CartCreate")
	f.waitMutation()
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput = input
	cart := &model.Cart{}
	f.addLines(cart, input.Lines)
	return f.commit("", cart), nil
}

func (f *fakeStorefront) CartLinesAdd(_ context.Context, cartID string, lines []model.CartLineInput) (*model.CartResult, error) {
	f.record("CartLinesAdd")
	f.waitMutation()
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, ok := f.carts[cartID]
	if !ok {
		return &model.CartResult{Errors: []model.CartUserError{{Message: "The specified cart does not exist."}}}, nil
	}
	cart := cloneCart(prev)
	f.addLines(cart, lines)
	return f.commit(cartID, cart), nil
}

func (f *fakeStorefront) CartLinesRemove(_ context.Context, cartID string, lineIDs []string) (*model.CartResult, error) {
	f.record("CartLinesRemove")
	f.waitMutation()
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, ok := f.carts[cartID]
	if !ok {
		return nil, storefront.ErrEmptyMutation
	}
	drop := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		drop[id] = true
	}
	cart := &model.Cart{}
	for _, l := range prev.Lines.Flatten() {
		if !drop[l.ID] {
			cart.Lines.Edges = append(cart.Lines.Edges, model.Edge[model.CartLine]{Node: l})
		}
	}
	f.recompute(cart)
	return f.commit(cartID, cart), nil
}

func cloneCart(c *model.Cart) *model.Cart {
	out := &model.Cart{}
	out.Lines.Edges = append(out.Lines.Edges, c.Lines.Edges...)
	return out
}

func (f *fakeStorefront) addLines(cart *model.Cart, lines []model.CartLineInput) {
	for _, in := range lines {
		f.seq++
		unit := model.Money{Amount: f.prices[in.MerchandiseID], CurrencyCode: "USD"}
		total := model.Money{Amount: "0", CurrencyCode: "USD"}
		for i := 0; i < in.Quantity; i++ {
			total, _ = total.Add(unit)
		}
		cart.Lines.Edges = append(cart.Lines.Edges, model.Edge[model.CartLine]{Node: model.CartLine{
			ID:          fmt.Sprintf("gid://shopify/CartLine/%d", f.seq),
			Quantity:    in.Quantity,
			Merchandise: model.ProductVariant{ID: in.MerchandiseID, Price: unit},
			Cost:        model.CartLineCost{TotalAmount: total},
		}})
	}
	f.recompute(cart)
}

func (f *fakeStorefront) recompute(cart *model.Cart) {
	cart.TotalQuantity = 0
	sub := model.Money{Amount: "0", CurrencyCode: "USD"}
	for _, l := range cart.Lines.Flatten() {
		cart.TotalQuantity += l.Quantity
		sub, _ = sub.Add(l.Cost.TotalAmount)
	}
	cart.Cost.SubtotalAmount = sub
}

// commit stores cart under a fresh id and retires the previous one.
func (f *fakeStorefront) commit(prevID string, cart *model.Cart) *model.CartResult {
	f.seq++
	cart.ID = fmt.Sprintf("gid://shopify/Cart/%d", f.seq)
	cart.CheckoutURL = "https://checkout.example/" + cart.ID
	if prevID != "" {
		delete(f.carts, prevID)
	}
	f.carts[cart.ID] = cart
	cp := *cart
	return &model.CartResult{Cart: &cp, Errors: f.userErrs}
}
