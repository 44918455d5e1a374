package document

import (
	"bytes"
	"encoding/json"
)

// Content is the schema-free payload of a section. Its shape is owned by the
// plugin registered for the section type.
type Content map[string]any

// Clone deep copies c through its JSON form. A nil Content stays nil.
func (c Content) Clone() Content {
	if c == nil {
		return nil
	}
	out := Content{}
	b, err := json.Marshal(c)
	if err == nil {
		err = json.Unmarshal(b, &out)
	}
	if err != nil {
		// unencodable values are copied shallowly
		out = make(Content, len(c))
		for k, v := range c {
			out[k] = v
		}
	}
	return out
}

// Equal reports deep equality of a and b. Values are compared through their
// canonical JSON encoding, so numbers decoded by different codecs (BSON int32,
// JSON float64) compare by value.
func (c Content) Equal(other Content) bool {
	if c == nil || other == nil {
		return c == nil && other == nil
	}
	a, err := json.Marshal(c)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// String returns the string value stored under key, or "".
func (c Content) String(key string) string {
	if c == nil {
		return ""
	}
	s, _ := c[key].(string)
	return s
}
