// Package catalog holds the pure browsing logic: paginated product grids and
// variant option selection.
package catalog

import (
	"context"
	"errors"

	"hydroshop/storefront/internal/model"
)

// ErrNoMorePages is returned by LoadMore once the last page has been appended.
var ErrNoMorePages = errors.New("no more pages")

// PageFetcher loads the page that starts after cursor.
type PageFetcher func(ctx context.Context, cursor string) (model.Connection[model.ProductCard], error)

// Grid accumulates the pages of a collection's product listing.
type Grid struct {
	Products    []model.ProductCard `json:"products"`
	EndCursor   string              `json:"endCursor"`
	HasNextPage bool                `json:"hasNextPage"`
}

// NewGrid seeds a grid from the initial page.
func NewGrid(first model.Connection[model.ProductCard]) *Grid {
	g := &Grid{}
	g.Append(first)
	return g
}

// Append adds page's products after the existing ones, in server order and
// without de-duplication, and takes over page's cursor and next-page flag.
func (g *Grid) Append(page model.Connection[model.ProductCard]) {
	g.Products = append(g.Products, page.Flatten()...)
	g.EndCursor = page.PageInfo.EndCursor
	g.HasNextPage = page.PageInfo.HasNextPage
}

// LoadMore fetches the next page and appends it. The grid is unchanged when
// fetch fails.
func (g *Grid) LoadMore(ctx context.Context, fetch PageFetcher) error {
	if !g.HasNextPage {
		return ErrNoMorePages
	}
	page, err := fetch(ctx, g.EndCursor)
	if err != nil {
		return err
	}
	g.Append(page)
	return nil
}
