package template

// TemplateRenderer is the engine seam the HTML renderer relies on: it
// executes a named template against data and returns the output.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
