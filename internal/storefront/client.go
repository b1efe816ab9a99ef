// Package storefront talks to the Shopify Storefront GraphQL API.
package storefront

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"resty.dev/v3"

	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/repository"
)

// Client is the remote commerce API as the rest of the application sees it.
// Lookups that find nothing return a nil entity and a nil error.
type Client interface {
	Shop(ctx context.Context) (*model.Shop, error)
	Collections(ctx context.Context, first int) ([]model.Collection, error)
	Collection(ctx context.Context, handle, cursor string) (*model.Collection, error)
	Product(ctx context.Context, handle string, selected []model.SelectedOption) (*model.Product, error)
	Cart(ctx context.Context, cartID string) (*model.Cart, error)
	CartCreate(ctx context.Context, input model.CartInput) (*model.CartResult, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []model.CartLineInput) (*model.CartResult, error)
	CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*model.CartResult, error)
	Domain() string
	I18n() I18n
}

// I18n is the buyer context every query runs in.
type I18n struct {
	Country  string // ISO 3166 region, e.g. "US"
	Language string // Storefront LanguageCode, e.g. "EN"
}

// ParseI18n normalizes a country and language pair with x/text.
func ParseI18n(country, lang string) (I18n, error) {
	region, err := language.ParseRegion(country)
	if err != nil {
		return I18n{}, fmt.Errorf("invalid country %q: %w", country, err)
	}
	base, err := language.ParseBase(lang)
	if err != nil {
		return I18n{}, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return I18n{Country: region.String(), Language: strings.ToUpper(base.String())}, nil
}

type Config struct {
	StoreDomain string
	APIVersion  string
	AccessToken string
	// Endpoint overrides the URL derived from StoreDomain and APIVersion.
	Endpoint string
	Timeout  time.Duration
	CacheTTL time.Duration
	I18n     I18n
}

type cachePolicy int

const (
	cacheNone cachePolicy = iota
	cacheShort
)

type client struct {
	http     *resty.Client
	endpoint string
	domain   string
	i18n     I18n
	cache    repository.StateStore
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient builds a Storefront API client. cache may be nil, which disables
// query caching.
func NewClient(cfg Config, cache repository.StateStore, logger *zap.Logger) Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, cfg.APIVersion)
	}

	httpClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Shopify-Storefront-Access-Token", cfg.AccessToken)
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	return &client{
		http:     httpClient,
		endpoint: endpoint,
		domain:   cfg.StoreDomain,
		i18n:     cfg.I18n,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

func (c *client) Domain() string { return c.domain }

func (c *client) I18n() I18n { return c.i18n }

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage    `json:"data"`
	Errors []GraphQLErrorItem `json:"errors,omitempty"`
}

// do runs one operation and decodes its data block into out.
func (c *client) do(ctx context.Context, query string, vars map[string]any, policy cachePolicy, out any) error {
	if vars == nil {
		vars = make(map[string]any)
	}
	vars["country"] = c.i18n.Country
	vars["language"] = c.i18n.Language

	body := graphQLRequest{Query: query, Variables: vars}

	useCache := policy == cacheShort && c.cache != nil && c.cacheTTL > 0
	var key string
	if useCache {
		k, err := cacheKey(body)
		if err != nil {
			return err
		}
		key = k
		if data, err := c.cache.Get(ctx, key); err == nil && data != nil {
			c.logger.Debug("storefront cache hit", zap.String("key", key))
			return json.Unmarshal(data, out)
		}
	}

	var result graphQLResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("storefront request: %w", err)
	}
	if resp.IsError() {
		return &HTTPError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if len(result.Errors) > 0 {
		return &GraphQLError{Errors: result.Errors}
	}
	if len(result.Data) == 0 {
		return fmt.Errorf("storefront response without data")
	}

	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("decode storefront data: %w", err)
	}

	if useCache {
		if err := c.cache.Set(ctx, key, result.Data, c.cacheTTL); err != nil {
			c.logger.Warn("storefront cache write failed", zap.Error(err))
		}
	}
	return nil
}

func cacheKey(body graphQLRequest) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return "sfq:" + hex.EncodeToString(sum[:]), nil
}

func (c *client) Shop(ctx context.Context) (*model.Shop, error) {
	var data struct {
		Shop *model.Shop `json:"shop"`
	}
	if err := c.do(ctx, shopQuery, nil, cacheShort, &data); err != nil {
		return nil, err
	}
	return data.Shop, nil
}

func (c *client) Collections(ctx context.Context, first int) ([]model.Collection, error) {
	var data struct {
		Collections model.Connection[model.Collection] `json:"collections"`
	}
	vars := map[string]any{"first": first}
	if err := c.do(ctx, collectionsQuery, vars, cacheShort, &data); err != nil {
		return nil, err
	}
	return data.Collections.Flatten(), nil
}

func (c *client) Collection(ctx context.Context, handle, cursor string) (*model.Collection, error) {
	var data struct {
		Collection *model.Collection `json:"collection"`
	}
	vars := map[string]any{"handle": handle, "first": CollectionPageSize}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	if err := c.do(ctx, collectionQuery, vars, cacheShort, &data); err != nil {
		return nil, err
	}
	return data.Collection, nil
}

func (c *client) Product(ctx context.Context, handle string, selected []model.SelectedOption) (*model.Product, error) {
	var data struct {
		Product *model.Product `json:"product"`
	}
	if selected == nil {
		selected = []model.SelectedOption{}
	}
	vars := map[string]any{"handle": handle, "selectedOptions": selected}
	if err := c.do(ctx, productQuery, vars, cacheShort, &data); err != nil {
		return nil, err
	}
	if data.Product == nil || data.Product.ID == "" {
		return nil, nil
	}
	return data.Product, nil
}

func (c *client) Cart(ctx context.Context, cartID string) (*model.Cart, error) {
	var data struct {
		Cart *model.Cart `json:"cart"`
	}
	vars := map[string]any{"cartId": cartID}
	if err := c.do(ctx, cartQuery, vars, cacheNone, &data); err != nil {
		return nil, err
	}
	return data.Cart, nil
}

func (c *client) CartCreate(ctx context.Context, input model.CartInput) (*model.CartResult, error) {
	var data struct {
		CartCreate *model.CartResult `json:"cartCreate"`
	}
	vars := map[string]any{"input": input}
	if err := c.do(ctx, cartCreateMutation, vars, cacheNone, &data); err != nil {
		return nil, err
	}
	if data.CartCreate == nil {
		return nil, ErrEmptyMutation
	}
	return data.CartCreate, nil
}

func (c *client) CartLinesAdd(ctx context.Context, cartID string, lines []model.CartLineInput) (*model.CartResult, error) {
	var data struct {
		CartLinesAdd *model.CartResult `json:"cartLinesAdd"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.do(ctx, cartLinesAddMutation, vars, cacheNone, &data); err != nil {
		return nil, err
	}
	if data.CartLinesAdd == nil {
		return nil, ErrEmptyMutation
	}
	return data.CartLinesAdd, nil
}

func (c *client) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*model.CartResult, error) {
	var data struct {
		CartLinesRemove *model.CartResult `json:"cartLinesRemove"`
	}
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := c.do(ctx, cartLinesRemoveMutation, vars, cacheNone, &data); err != nil {
		return nil, err
	}
	if data.CartLinesRemove == nil {
		return nil, ErrEmptyMutation
	}
	return data.CartLinesRemove, nil
}
