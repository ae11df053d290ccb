package transport

import (
	"net/url"
	"strings"
)

// Query builds a query string whose parameters keep the order they were
// added in. Empty values are skipped, so only the filters the user actually
// filled end up in the URL.
type Query struct {
	terms []string
}

// Add appends key=value when value is not empty. The value is escaped with
// url.QueryEscape.
func (q *Query) Add(key, value string) *Query {
	if value == "" {
		return q
	}
	q.terms = append(q.terms, key+"="+url.QueryEscape(value))
	return q
}

// AddBool appends key=true when v is true and nothing otherwise.
func (q *Query) AddBool(key string, v bool) *Query {
	if !v {
		return q
	}
	q.terms = append(q.terms, key+"=true")
	return q
}

// Len is the number of terms added.
func (q *Query) Len() int {
	return len(q.terms)
}

// Encode joins the terms with "&".
func (q *Query) Encode() string {
	return strings.Join(q.terms, "&")
}

// WithQuery appends the encoded query to path. An empty query leaves path as
// is.
func WithQuery(path string, q *Query) string {
	if q == nil || q.Len() == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Path joins a resource collection with escaped identifier segments:
// Path("/customers", "a b", "activate") is "/customers/a%20b/activate".
func Path(collection string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(collection, "/"))
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}
