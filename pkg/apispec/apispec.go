// Package apispec embeds the OpenAPI description of the customer and pet API
// and exposes its operations.
package apispec

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawDocument []byte

// Raw returns a copy of the embedded document.
func Raw() []byte {
	return append([]byte(nil), rawDocument...)
}

// Operation is one method on one path template.
type Operation struct {
	ID      string `json:"id" yaml:"id"`
	Method  string `json:"method" yaml:"method"`
	Path    string `json:"path" yaml:"path"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Key identifies the operation as "METHOD path".
func (o Operation) Key() string {
	return o.Method + " " + o.Path
}

// Document is the validated API description.
type Document struct {
	spec       *openapi3.T
	operations []Operation
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Document, error) {
	return LoadData(ctx, rawDocument)
}

// LoadData parses and validates an OpenAPI document held in memory.
func LoadData(ctx context.Context, raw []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("apispec: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("apispec: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apispec: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("apispec: document does not contain any paths")
	}

	return &Document{spec: spec, operations: collectOperations(spec)}, nil
}

func collectOperations(spec *openapi3.T) []Operation {
	var out []Operation
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out = append(out, Operation{
				ID:      id,
				Method:  strings.ToUpper(method),
				Path:    path,
				Summary: op.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Title returns the document title.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Operations returns every operation sorted by path then method.
func (d *Document) Operations() []Operation {
	return append([]Operation(nil), d.operations...)
}

// Lookup finds the operation for method and path template.
func (d *Document) Lookup(method, path string) (Operation, bool) {
	key := strings.ToUpper(method) + " " + path
	for _, op := range d.operations {
		if op.Key() == key {
			return op, true
		}
	}
	return Operation{}, false
}
