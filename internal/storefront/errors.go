package storefront

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxErrorBody caps, in bytes, how much of a failed response ends up in an
// error message.
const maxErrorBody = 200

// ErrEmptyMutation is returned when a mutation yields no payload at all.
var ErrEmptyMutation = errors.New("no data returned from storefront mutation")

// GraphQLErrorItem is one entry of the top-level "errors" array.
type GraphQLErrorItem struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// GraphQLError wraps the top-level errors of a response. Business-rule
// rejections of cart mutations are not reported here; they travel in
// model.CartResult.Errors.
type GraphQLError struct {
	Errors []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Message)
	}
	return "storefront graphql: " + strings.Join(msgs, "; ")
}

// HTTPError is a non-2xx answer from the Storefront API endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return fmt.Sprintf("storefront http %d: %s", e.StatusCode, body)
}
