package render

import (
	"context"
)

// TableRenderer converts a result set into a byte representation (an HTML
// fragment, an aligned text table, ...).
type TableRenderer interface {
	Name() string
	ContentType() string
	RenderTable(ctx context.Context, table Table) ([]byte, error)
}

// Result is the outcome of rendering a search response. HasRows tells the
// caller whether a first row exists to promote into the form.
type Result struct {
	Body    string
	HasRows bool
}

// RenderResult renders table with r and reports whether it had rows.
func RenderResult(ctx context.Context, r TableRenderer, table Table) (Result, error) {
	if r == nil {
		return Result{}, ErrRendererNotFound
	}
	body, err := r.RenderTable(ctx, table)
	if err != nil {
		return Result{}, err
	}
	return Result{Body: string(body), HasRows: len(table.Rows) > 0}, nil
}
