package model

// PageInfo is the Relay pagination block returned with a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Edge wraps a single node of a Relay connection.
type Edge[T any] struct {
	Node T `json:"node"`
}

// Connection is a Relay connection. The Storefront API returns either edges or
// nodes depending on the query; Flatten hides the difference.
type Connection[T any] struct {
	Edges    []Edge[T] `json:"edges,omitempty"`
	Nodes    []T       `json:"nodes,omitempty"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// Flatten returns the connection's items in server order.
func (c Connection[T]) Flatten() []T {
	if len(c.Nodes) > 0 {
		return c.Nodes
	}
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}
