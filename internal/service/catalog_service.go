package service

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hydroshop/storefront/internal/catalog"
	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/optimistic"
	"hydroshop/storefront/internal/storefront"
)

// MaxCollectionPages bounds CollectionPages.
const MaxCollectionPages = 25

// Layout is the data every page shares: the shop and the shopper's cart.
type Layout struct {
	Shop *model.Shop         `json:"shop"`
	Cart optimistic.CartView `json:"-"`
}

type CollectionPage struct {
	Collection *model.Collection `json:"collection"`
	Grid       *catalog.Grid     `json:"grid"`
	// Pages is how many pages Grid holds.
	Pages int `json:"pages"`
}

type ProductPage struct {
	Product         *model.Product           `json:"product"`
	SelectedVariant *model.ProductVariant    `json:"selectedVariant"`
	Orderable       bool                     `json:"orderable"`
	StoreDomain     string                   `json:"storeDomain"`
	Selectors       []catalog.OptionSelector `json:"selectors"`
}

type CatalogService interface {
	Layout(ctx context.Context, cartID string) (*Layout, error)
	FeaturedCollections(ctx context.Context) ([]model.Collection, error)
	// Collection loads the single page starting after cursor.
	Collection(ctx context.Context, handle, cursor string) (*CollectionPage, error)
	// CollectionPages loads the first pages pages, accumulated in order.
	CollectionPages(ctx context.Context, handle string, pages int) (*CollectionPage, error)
	// Product resolves the variant selected by query. path is the page path
	// option links point at; pending, when set, is the destination of a
	// navigation that has not completed yet.
	Product(ctx context.Context, path, handle string, query url.Values, pending *url.URL) (*ProductPage, error)
}

type catalogService struct {
	client storefront.Client
	carts  CartService
	logger *zap.Logger
}

func NewCatalogService(client storefront.Client, carts CartService, logger *zap.Logger) CatalogService {
	return &catalogService{client: client, carts: carts, logger: logger}
}

func (s *catalogService) Layout(ctx context.Context, cartID string) (*Layout, error) {
	if s.client == nil {
		return nil, ErrMissingStorefront
	}

	layout := &Layout{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shop, err := s.client.Shop(gctx)
		if err != nil {
			return fmt.Errorf("load shop: %w", err)
		}
		layout.Shop = shop
		return nil
	})
	g.Go(func() error {
		// The cart is secondary to the page: a failure renders without it.
		view, err := s.carts.Cart(gctx, cartID)
		if err != nil {
			s.logger.Warn("layout cart unavailable", zap.String("cart_id", cartID), zap.Error(err))
			return nil
		}
		layout.Cart = view
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if layout.Shop == nil {
		layout.Shop = &model.Shop{}
	}
	return layout, nil
}

func (s *catalogService) FeaturedCollections(ctx context.Context) ([]model.Collection, error) {
	if s.client == nil {
		return nil, ErrMissingStorefront
	}
	cols, err := s.client.Collections(ctx, storefront.FeaturedCollectionCount)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	return cols, nil
}

func (s *catalogService) Collection(ctx context.Context, handle, cursor string) (*CollectionPage, error) {
	col, err := s.fetchCollection(ctx, handle, cursor)
	if err != nil {
		return nil, err
	}
	return &CollectionPage{Collection: col, Grid: catalog.NewGrid(col.Products), Pages: 1}, nil
}

func (s *catalogService) CollectionPages(ctx context.Context, handle string, pages int) (*CollectionPage, error) {
	if pages < 1 {
		pages = 1
	}
	if pages > MaxCollectionPages {
		pages = MaxCollectionPages
	}

	page, err := s.Collection(ctx, handle, "")
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) (model.Connection[model.ProductCard], error) {
		col, err := s.fetchCollection(ctx, handle, cursor)
		if err != nil {
			return model.Connection[model.ProductCard]{}, err
		}
		return col.Products, nil
	}
	for page.Pages < pages && page.Grid.HasNextPage {
		if err := page.Grid.LoadMore(ctx, fetch); err != nil {
			return nil, err
		}
		page.Pages++
	}
	return page, nil
}

func (s *catalogService) fetchCollection(ctx context.Context, handle, cursor string) (*model.Collection, error) {
	if s.client == nil {
		return nil, ErrMissingStorefront
	}
	col, err := s.client.Collection(ctx, handle, cursor)
	if err != nil {
		return nil, fmt.Errorf("load collection %q: %w", handle, err)
	}
	if col == nil {
		return nil, fmt.Errorf("collection %q: %w", handle, ErrNotFound)
	}
	return col, nil
}

func (s *catalogService) Product(ctx context.Context, path, handle string, query url.Values, pending *url.URL) (*ProductPage, error) {
	if s.client == nil {
		return nil, ErrMissingStorefront
	}
	product, err := s.client.Product(ctx, handle, catalog.SelectedOptionsFromQuery(query))
	if err != nil {
		return nil, fmt.Errorf("load product %q: %w", handle, err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %q: %w", handle, ErrNotFound)
	}

	variant := product.DefaultVariant()
	params := catalog.EffectiveParams(query, variant, pending)

	return &ProductPage{
		Product:         product,
		SelectedVariant: variant,
		Orderable:       variant != nil && variant.AvailableForSale,
		StoreDomain:     s.client.Domain(),
		Selectors:       catalog.BuildSelectors(path, product.Options, params),
	}, nil
}
