package render

// PageOptions describe per-request data for renderers that emit a whole form
// page rather than a result fragment.
type PageOptions struct {
	// Title is shown in the document head and page header.
	Title string
	// ActionPath prefixes every action button target; the action name is
	// appended as the last path segment. Defaults to "/actions".
	ActionPath string
}

// DefaultActionPath is the prefix used when PageOptions.ActionPath is empty.
const DefaultActionPath = "/actions"

// WithDefaults fills unset options.
func (o PageOptions) WithDefaults() PageOptions {
	if o.Title == "" {
		o.Title = "Customer & Pet Admin"
	}
	if o.ActionPath == "" {
		o.ActionPath = DefaultActionPath
	}
	return o
}
