package domain

import "context"

// DataProvider fetches raw claim material from an external source and
// selects the portion identified by a query expression.
type DataProvider interface {
	Fetch(ctx context.Context, source, query string) ([]byte, error)
}
