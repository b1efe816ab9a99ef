package optimistic

import "hydroshop/storefront/internal/model"

// CartView is what the presentation layer renders for a cart.
type CartView struct {
	Cart          *model.Cart
	Lines         []model.CartLine
	TotalQuantity int
	Subtotal      model.Money
	RemovedCost   model.Money
	// Updating is set while any mutation against the cart is in flight.
	Updating bool
	// Adding is set while an add-to-cart is in flight.
	Adding bool
}

// Empty reports whether there is nothing to show.
func (v CartView) Empty() bool {
	return v.Cart == nil || v.TotalQuantity <= 0
}

// Apply overlays the in-flight operations on the last confirmed cart.
//
// Every line targeted by a pending removal is hidden and its cost deducted
// from the subtotal. A line is deducted at most once however many removals
// target it, and removals of lines missing from cart are ignored. With no
// pending operations the view is the cart exactly as the server returned it.
func Apply(cart *model.Cart, pending []Operation) CartView {
	view := CartView{Cart: cart, Updating: len(pending) > 0}

	removing := make(map[string]struct{})
	for _, op := range pending {
		switch op.Kind {
		case KindRemove:
			for _, id := range op.LineIDs {
				removing[id] = struct{}{}
			}
		case KindAdd:
			view.Adding = true
		}
	}

	if cart == nil {
		return view
	}

	view.TotalQuantity = cart.TotalQuantity
	view.Subtotal = cart.Cost.SubtotalAmount
	view.RemovedCost = model.Money{Amount: "0", CurrencyCode: cart.Cost.SubtotalAmount.CurrencyCode}

	for _, line := range cart.Lines.Flatten() {
		if _, ok := removing[line.ID]; !ok {
			view.Lines = append(view.Lines, line)
			continue
		}
		removed, err := view.RemovedCost.Add(line.Cost.TotalAmount)
		if err != nil {
			// Mixed currencies cannot be netted; keep the line visible.
			view.Lines = append(view.Lines, line)
			continue
		}
		view.RemovedCost = removed
		view.TotalQuantity -= line.Quantity
	}

	if sub, err := view.Subtotal.Sub(view.RemovedCost); err == nil {
		view.Subtotal = sub
	}
	if view.TotalQuantity < 0 {
		view.TotalQuantity = 0
	}
	return view
}
