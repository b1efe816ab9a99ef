package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/optimistic"
	"hydroshop/storefront/internal/storefront"
)

// Cart actions accepted in the cartAction form field.
const (
	CartActionAdd    = string(optimistic.KindAdd)
	CartActionRemove = string(optimistic.KindRemove)
)

// CartForm is the raw cart mutation submission. Lines and LineIDs are JSON.
type CartForm struct {
	Action      string
	CountryCode string
	Lines       string
	LineIDs     string
}

type CartService interface {
	// Cart loads the session's cart with in-flight mutations overlaid. An
	// empty cartID yields an empty view without contacting the remote API.
	Cart(ctx context.Context, cartID string) (optimistic.CartView, error)
	// Apply performs one cart mutation. Malformed submissions fail before the
	// remote API is contacted. The result's cart id is the one the session
	// must hold from now on.
	Apply(ctx context.Context, cartID string, form CartForm) (*model.CartResult, error)
}

type cartService struct {
	client  storefront.Client
	pending *optimistic.PendingSet
	logger  *zap.Logger
}

func NewCartService(client storefront.Client, pending *optimistic.PendingSet, logger *zap.Logger) CartService {
	return &cartService{client: client, pending: pending, logger: logger}
}

func (s *cartService) Cart(ctx context.Context, cartID string) (optimistic.CartView, error) {
	if s.client == nil {
		return optimistic.CartView{}, ErrMissingStorefront
	}
	if cartID == "" {
		return optimistic.Apply(nil, nil), nil
	}

	// Snapshot before reading so a mutation that completes mid-read is
	// still overlaid rather than flickering back in.
	pending := s.pending.Snapshot(cartID)

	cart, err := s.client.Cart(ctx, cartID)
	if err != nil {
		return optimistic.CartView{}, fmt.Errorf("load cart: %w", err)
	}
	return optimistic.Apply(cart, pending), nil
}

func (s *cartService) Apply(ctx context.Context, cartID string, form CartForm) (*model.CartResult, error) {
	if s.client == nil {
		return nil, ErrMissingStorefront
	}

	var (
		result *model.CartResult
		err    error
	)
	switch form.Action {
	case CartActionAdd:
		result, err = s.add(ctx, cartID, form)
	case CartActionRemove:
		result, err = s.remove(ctx, cartID, form)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCartAction, form.Action)
	}
	if err != nil {
		return nil, err
	}

	if len(result.Errors) > 0 {
		s.logger.Debug("cart mutation returned user errors",
			zap.String("action", form.Action),
			zap.Int("count", len(result.Errors)),
		)
	}
	return result, nil
}

func (s *cartService) add(ctx context.Context, cartID string, form CartForm) (*model.CartResult, error) {
	lines, err := parseLines(form.Lines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoLinesToAdd
	}
	country, err := normalizeCountry(form.CountryCode)
	if err != nil {
		return nil, err
	}

	done := s.pending.Begin(optimistic.Operation{Kind: optimistic.KindAdd, CartID: cartID, Lines: lines})
	defer done()

	if cartID == "" {
		input := model.CartInput{Lines: lines}
		if country != "" {
			input.BuyerIdentity = &model.BuyerIdentity{CountryCode: country}
		}
		result, err := s.client.CartCreate(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		if result.Cart != nil {
			s.logger.Debug("cart created", zap.String("cart_id", result.Cart.ID))
		}
		return result, nil
	}

	result, err := s.client.CartLinesAdd(ctx, cartID, lines)
	if err != nil {
		return nil, fmt.Errorf("add cart lines: %w", err)
	}
	return result, nil
}

func (s *cartService) remove(ctx context.Context, cartID string, form CartForm) (*model.CartResult, error) {
	lineIDs, err := parseLineIDs(form.LineIDs)
	if err != nil {
		return nil, err
	}
	if len(lineIDs) == 0 {
		return nil, ErrNoLinesToRemove
	}
	if cartID == "" {
		return nil, ErrNoCart
	}

	done := s.pending.Begin(optimistic.Operation{Kind: optimistic.KindRemove, CartID: cartID, LineIDs: lineIDs})
	defer done()

	result, err := s.client.CartLinesRemove(ctx, cartID, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("remove cart lines: %w", err)
	}
	return result, nil
}

// parseLines decodes the lines field. An absent field is an empty list.
func parseLines(raw string) ([]model.CartLineInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var lines []model.CartLineInput
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLines, err)
	}
	for i := range lines {
		if lines[i].MerchandiseID == "" {
			return nil, fmt.Errorf("%w: line %d has no merchandiseId", ErrInvalidLines, i)
		}
		switch {
		case lines[i].Quantity < 0:
			return nil, fmt.Errorf("%w: line %d has negative quantity", ErrInvalidLines, i)
		case lines[i].Quantity == 0:
			lines[i].Quantity = 1
		}
	}
	return lines, nil
}

// parseLineIDs decodes the linesIds field. An absent field is an empty list.
func parseLineIDs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLines, err)
	}
	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}

func normalizeCountry(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
	}
	return region.String(), nil
}
