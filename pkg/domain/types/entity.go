package types

import "strings"

// RecordID represents the unique identifier of a backing-store record
type RecordID string

// String returns the string representation of the record ID
func (r RecordID) String() string {
	return string(r)
}

// FieldName represents the logical name of a record field
type FieldName string

// String returns the string representation of the field name
func (f FieldName) String() string {
	return string(f)
}

// EntityType represents the logical name of a record entity type
type EntityType string

// String returns the string representation of the entity type
func (e EntityType) String() string {
	return string(e)
}

// Pluralize returns the entity set name used by persistence updates.
// Follows the backing store's collection naming convention.
func (e EntityType) Pluralize() string {
	s := string(e)
	switch {
	case s == "":
		return ""
	case strings.HasSuffix(s, "y") && !hasVowelBeforeSuffix(s, "y"):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"),
		strings.HasSuffix(s, "x"),
		strings.HasSuffix(s, "z"),
		strings.HasSuffix(s, "ch"),
		strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

func hasVowelBeforeSuffix(s, suffix string) bool {
	if len(s) <= len(suffix) {
		return false
	}
	c := s[len(s)-len(suffix)-1]
	return strings.ContainsRune("aeiou", rune(c))
}
