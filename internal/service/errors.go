package service

import "errors"

var (
	ErrMissingStorefront  = errors.New("missing storefront client")
	ErrInvalidCartAction  = errors.New("invalid cart action")
	ErrNoLinesToRemove    = errors.New("no lines to remove")
	ErrNoLinesToAdd       = errors.New("no lines to add")
	ErrInvalidLines       = errors.New("invalid cart lines")
	ErrInvalidCountryCode = errors.New("invalid country code")
	ErrNoCart             = errors.New("no cart in session")
	ErrNotFound           = errors.New("not found")
)

// IsInputError reports whether err was caused by a malformed cart form rather
// than by the remote API.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidCartAction) ||
		errors.Is(err, ErrNoLinesToRemove) ||
		errors.Is(err, ErrNoLinesToAdd) ||
		errors.Is(err, ErrInvalidLines) ||
		errors.Is(err, ErrInvalidCountryCode) ||
		errors.Is(err, ErrNoCart)
}
