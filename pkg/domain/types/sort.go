package types

import "fmt"

// SortDirection represents the direction of the active board sort
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid checks if the sort direction is valid
func (d SortDirection) IsValid() bool {
	switch d {
	case SortAsc, SortDesc:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort direction
func (d SortDirection) String() string {
	return string(d)
}

// ParseSortDirection parses a string into a SortDirection
func ParseSortDirection(s string) (SortDirection, error) {
	d := SortDirection(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid sort direction: %s", s)
	}
	return d, nil
}
