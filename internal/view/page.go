package view

import "hydroshop/storefront/internal/service"

// Page is the data every template receives.
type Page struct {
	Layout      *service.Layout
	Title       string
	Description string
	// Country pre-fills the buyer country of cart forms.
	Country string
	// Page is the route specific payload.
	Page any
}
