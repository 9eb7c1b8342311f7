package model

import (
	"strings"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// ReferenceValue is a structured entity reference carried on a card field
type ReferenceValue struct {
	ID     types.RecordID
	Name   string
	Entity types.EntityType
}

// FieldValue is a discriminated card field value. Exactly one of the
// kind-specific members is meaningful, selected by Kind. Key carries the
// stored option key behind a formatted scalar (option-set fields store a
// key while displaying a label); it is empty for values without one.
type FieldValue struct {
	Kind       types.ValueKind
	Label      string
	Key        string
	Text       string
	Date       time.Time
	Reference  *ReferenceValue
	References []ReferenceValue
}

// ScalarValue builds a scalar field value
func ScalarValue(label, text string) FieldValue {
	return FieldValue{Kind: types.ValueKindScalar, Label: label, Text: text}
}

// DateValue builds a date field value. The formatted text is kept for
// display and search.
func DateValue(label, text string, at time.Time) FieldValue {
	return FieldValue{Kind: types.ValueKindDate, Label: label, Text: text, Date: at}
}

// ReferenceFieldValue builds a single entity-reference field value
func ReferenceFieldValue(label string, ref ReferenceValue) FieldValue {
	return FieldValue{Kind: types.ValueKindReference, Label: label, Reference: &ref}
}

// ReferenceListValue builds a multi-reference field value
func ReferenceListValue(label string, refs []ReferenceValue) FieldValue {
	return FieldValue{Kind: types.ValueKindReferenceList, Label: label, References: refs}
}

// SearchText returns the string form of the value used by full-text search
func (v FieldValue) SearchText() string {
	switch v.Kind {
	case types.ValueKindReference:
		if v.Reference != nil {
			return v.Reference.Name
		}
		return ""
	case types.ValueKindReferenceList:
		names := make([]string, 0, len(v.References))
		for _, ref := range v.References {
			names = append(names, ref.Name)
		}
		return strings.Join(names, " ")
	default:
		return v.Text
	}
}

// CardItem is the display-ready projection of one record under the
// active view. Cards are rebuilt in full on every input change; only the
// drag reconciler reassigns Column in place.
type CardItem struct {
	ID     types.RecordID
	Column types.ColumnID
	Title  string
	Fields map[types.FieldName]FieldValue
}

// Matches reports whether any field value (or the title) contains the
// given term, case-insensitively. An empty term matches everything.
func (c CardItem) Matches(term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(c.Title), needle) {
		return true
	}
	for _, v := range c.Fields {
		if strings.Contains(strings.ToLower(v.SearchText()), needle) {
			return true
		}
	}
	return false
}

// FieldText returns the search/sort string of the named field
func (c CardItem) FieldText(name types.FieldName) (string, bool) {
	if name == TitleField {
		return c.Title, true
	}
	v, ok := c.Fields[name]
	if !ok {
		return "", false
	}
	return v.SearchText(), true
}

// FieldKey returns the stored key of the named field for exact-match
// filtering, falling back to the display text when no key is carried
func (c CardItem) FieldKey(name types.FieldName) (string, bool) {
	if name == TitleField {
		return c.Title, true
	}
	v, ok := c.Fields[name]
	if !ok {
		return "", false
	}
	if v.Key != "" {
		return v.Key, true
	}
	return v.SearchText(), true
}

// TitleField is the synthetic field name the first dataset column maps to
const TitleField types.FieldName = "title"
