package catalog

import (
	"net/url"
	"sort"

	"hydroshop/storefront/internal/model"
)

// reservedParams are query parameters that never name a product option.
var reservedParams = map[string]struct{}{
	"index": {},
	"_data": {},
}

// SelectedOptionsFromQuery turns the query string into the option pairs the
// product query resolves a variant from. The first value of each parameter
// wins; pairs are sorted by name so equal selections produce equal requests.
func SelectedOptionsFromQuery(q url.Values) []model.SelectedOption {
	out := make([]model.SelectedOption, 0, len(q))
	for name, values := range q {
		if _, skip := reservedParams[name]; skip || len(values) == 0 {
			continue
		}
		out = append(out, model.SelectedOption{Name: name, Value: values[0]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParamsWithDefaults copies current and fills in, for every option the query
// does not mention, the value of variant's own selected option.
func ParamsWithDefaults(current url.Values, variant *model.ProductVariant) url.Values {
	params := cloneValues(current)
	if variant == nil {
		return params
	}
	for _, opt := range variant.SelectedOptions {
		if !current.Has(opt.Name) {
			params.Set(opt.Name, opt.Value)
		}
	}
	return params
}

// EffectiveParams is the selection to render. While a navigation is pending
// its destination is authoritative, so links already show the next state.
func EffectiveParams(committed url.Values, variant *model.ProductVariant, pending *url.URL) url.Values {
	if pending != nil {
		return pending.Query()
	}
	return ParamsWithDefaults(committed, variant)
}

// OptionValueLink is one selectable value of an option.
type OptionValueLink struct {
	Value    string `json:"value"`
	URL      string `json:"url"`
	Selected bool   `json:"selected"`
}

// OptionSelector is an option with a link per value.
type OptionSelector struct {
	Name   string            `json:"name"`
	Values []OptionValueLink `json:"values"`
}

// BuildSelectors builds, for each option, links to path that set name=value
// and keep every other parameter of params. Options without values are
// skipped.
func BuildSelectors(path string, options []model.ProductOption, params url.Values) []OptionSelector {
	selectors := make([]OptionSelector, 0, len(options))
	for _, opt := range options {
		if len(opt.Values) == 0 {
			continue
		}
		current := params.Get(opt.Name)
		sel := OptionSelector{Name: opt.Name, Values: make([]OptionValueLink, 0, len(opt.Values))}
		for _, value := range opt.Values {
			link := cloneValues(params)
			link.Set(opt.Name, value)
			sel.Values = append(sel.Values, OptionValueLink{
				Value:    value,
				URL:      path + "?" + link.Encode(),
				Selected: current == value,
			})
		}
		selectors = append(selectors, sel)
	}
	return selectors
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
