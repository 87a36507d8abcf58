package domain

import (
	"bytes"
	"encoding/json"
)

// ClassifyItem is the minimal venue description sent for classification.
type ClassifyItem struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// EntryKind tags the shape an Entry was decoded from.
type EntryKind int

// Entry kinds.
const (
	// EntryUnknown is any shape that carries no usable name.
	EntryUnknown EntryKind = iota
	// EntryName is a bare JSON string.
	EntryName
	// EntryObject is a JSON object with a string "name" field.
	EntryObject
)

// Entry is one element of a category list in generator output.
// Model output is untrusted: it may hold bare names or objects, and anything
// else decodes to EntryUnknown instead of failing.
type Entry struct {
	kind EntryKind
	name string
}

// NameEntry builds an entry from a bare name.
func NameEntry(name string) Entry { return Entry{kind: EntryName, name: name} }

// Kind returns the decoded shape.
func (e Entry) Kind() EntryKind { return e.kind }

// Name returns the venue name and whether the entry carries one.
func (e Entry) Name() (string, bool) {
	if e.kind == EntryUnknown {
		return "", false
	}
	return e.name, true
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (e *Entry) UnmarshalJSON(data []byte) error {
	*e = Entry{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if json.Unmarshal(data, &s) == nil {
			*e = Entry{kind: EntryName, name: s}
		}
	case '{':
		var obj struct {
			Name *string `json:"name"`
		}
		if json.Unmarshal(data, &obj) == nil && obj.Name != nil {
			*e = Entry{kind: EntryObject, name: *obj.Name}
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Unknown entries encode as null.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.kind == EntryUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(e.name) //nolint:wrapcheck // plain string encoding
}

// CategoryMap maps a category label (usually suffixed with an emoji) to venue entries.
type CategoryMap map[string][]Entry

// Merge appends other's entries under the same labels.
// Labels match by exact string; names are not deduplicated.
func (m CategoryMap) Merge(other CategoryMap) {
	for label, entries := range other {
		m[label] = append(m[label], entries...)
	}
}

// Names returns the usable names under label, in order.
func (m CategoryMap) Names(label string) []string {
	entries := m[label]
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := e.Name(); ok {
			out = append(out, n)
		}
	}
	return out
}
