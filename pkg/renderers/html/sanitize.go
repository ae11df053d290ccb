package html

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	resultsPolicy     *bluemonday.Policy
	resultsPolicyOnce sync.Once
)

// resultsSanitizer admits the markup a result fragment is made of: tables
// from RenderTable and the pre block used for plain-text results.
func resultsSanitizer() *bluemonday.Policy {
	resultsPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("table", "thead", "tbody", "tr", "th", "td", "pre")
		p.AllowAttrs("class").OnElements("table", "tr", "th", "td")
		resultsPolicy = p
	})
	return resultsPolicy
}

// sanitizeResults filters the results fragment before the page embeds it
// unescaped.
func sanitizeResults(fragment string) string {
	if fragment == "" {
		return ""
	}
	return resultsSanitizer().Sanitize(fragment)
}
