package formstate

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// FlashElementID is the container holding the flash message.
	FlashElementID = "flash_message"
	// ResultsElementID is the container holding the rendered result set.
	ResultsElementID = "search_results"
)

// FromHTML reads a rendered form page back into a State. Inputs, selects and
// textareas are keyed by id (falling back to name); the flash and results
// containers are read by their well-known ids.
func FromHTML(r io.Reader) (State, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return State{}, fmt.Errorf("formstate: parse html: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument is FromHTML for an already parsed document.
func FromDocument(doc *goquery.Document) (State, error) {
	if doc == nil {
		return State{}, fmt.Errorf("formstate: document is nil")
	}

	fields := make(map[string]string)
	doc.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		key := fieldKey(s)
		if key == "" {
			return
		}
		fields[key] = controlValue(s)
	})

	state := State{Fields: fields}
	state.Flash = strings.TrimSpace(doc.Find("#" + FlashElementID).First().Text())

	results := doc.Find("#" + ResultsElementID).First()
	if results.Length() > 0 {
		body, err := results.Html()
		if err != nil {
			return State{}, fmt.Errorf("formstate: read results: %w", err)
		}
		state.Results = strings.TrimSpace(body)
	}
	return state, nil
}

func fieldKey(s *goquery.Selection) string {
	if id := strings.TrimSpace(s.AttrOr("id", "")); id != "" {
		return id
	}
	return strings.TrimSpace(s.AttrOr("name", ""))
}

func controlValue(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "textarea":
		return s.Text()
	case "select":
		selected := s.Find("option[selected]").First()
		if selected.Length() == 0 {
			selected = s.Find("option").First()
		}
		if v, ok := selected.Attr("value"); ok {
			return v
		}
		return selected.Text()
	default:
		if strings.EqualFold(s.AttrOr("type", ""), "checkbox") {
			if _, checked := s.Attr("checked"); checked {
				return "true"
			}
			return ""
		}
		return s.AttrOr("value", "")
	}
}
