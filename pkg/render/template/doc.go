// Package template defines the template engine contract used by renderers.
// The gotemplate subpackage provides the pongo2-backed implementation.
package template
