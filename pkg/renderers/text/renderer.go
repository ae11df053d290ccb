// Package text renders result tables as aligned plain text for terminals.
package text

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-formclient/pkg/render"
)

const Name = "text"

type Renderer struct {
	padding int
}

var _ render.TableRenderer = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{padding: 2}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// RenderTable writes a header row, a rule and one line per row. Tabs and
// newlines inside cells are replaced by spaces so they cannot break the
// alignment.
func (r *Renderer) RenderTable(_ context.Context, table render.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, r.padding, ' ', 0)

	writeRow(w, table.Columns)
	rule := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		rule[i] = strings.Repeat("-", len(column))
	}
	writeRow(w, rule)
	for _, row := range table.Rows {
		writeRow(w, row)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("text renderer: flush: %w", err)
	}
	return buf.Bytes(), nil
}

var cellReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func writeRow(w *tabwriter.Writer, cells []string) {
	clean := make([]string, len(cells))
	for i, cell := range cells {
		clean[i] = cellReplacer.Replace(cell)
	}
	fmt.Fprintln(w, strings.Join(clean, "\t"))
}
