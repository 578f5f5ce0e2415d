package embed

import "strings"

// Anchor carries the attributes of an embed placeholder in rendered markup.
// The link text is taken from the first non-empty attribute in field order.
type Anchor struct {
	DataHref string `json:"data_href,omitempty"`
	Title    string `json:"title,omitempty"`
	Src      string `json:"src,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

// TextAnchor returns an anchor for a bare reference string.
func TextAnchor(raw string) Anchor {
	return Anchor{DataHref: raw}
}

// LinkText returns the trimmed reference text of the anchor.
func (a Anchor) LinkText() string {
	for _, candidate := range []string{a.DataHref, a.Title, a.Src, a.Alt} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}
