package runner

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/tidwall/gjson"
)

// XMLValue returns the text content of the first element whose local name
// matches element, ignoring namespace prefixes and surrounding whitespace.
// The boolean reports whether the element was present at all, so callers can
// raise their own descriptive error instead of a generic extraction failure.
func XMLValue(body, element string) (string, bool) {
	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != element {
			continue
		}
		return elementText(dec)
	}
}

// elementText collects the character data of the element just opened on dec,
// skipping nested children.
func elementText(dec *xml.Decoder) (string, bool) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		}
	}
	return strings.TrimSpace(text.String()), true
}

// JSONValue returns the value at a gjson path in a JSON response body.
func JSONValue(body, path string) (string, bool) {
	result := gjson.Get(body, path)
	if !result.Exists() {
		return "", false
	}
	return strings.TrimSpace(result.String()), true
}

// PrettyJSON re-indents a JSON payload for the step trail. Invalid JSON is
// returned unchanged.
func PrettyJSON(raw string) string {
	if !gjson.Valid(raw) {
		return raw
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
