package types

import "fmt"

// ViewType represents the kind of a grouping view
type ViewType string

const (
	ViewTypeOptionSet ViewType = "OptionSet"
	ViewTypeBPF       ViewType = "BPF"
)

// AllViewTypes returns all valid view types
func AllViewTypes() []ViewType {
	return []ViewType{
		ViewTypeOptionSet,
		ViewTypeBPF,
	}
}

// IsValid checks if the view type is valid
func (t ViewType) IsValid() bool {
	switch t {
	case ViewTypeOptionSet, ViewTypeBPF:
		return true
	default:
		return false
	}
}

// String returns the string representation of the view type
func (t ViewType) String() string {
	return string(t)
}

// ParseViewType parses a string into a ViewType
func ParseViewType(s string) (ViewType, error) {
	t := ViewType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid view type: %s", s)
	}
	return t, nil
}

// ColumnID represents the bucket key of a board column
type ColumnID string

// UnallocatedColumnID is the reserved bucket for records that do not
// resolve to any defined column.
const UnallocatedColumnID ColumnID = "unallocated"

// String returns the string representation of the column ID
func (c ColumnID) String() string {
	return string(c)
}

// IsUnallocated reports whether the column is the synthetic fallback bucket
func (c ColumnID) IsUnallocated() bool {
	return c == UnallocatedColumnID
}

// DefaultStageOrder is the display order assigned to process stages that
// do not appear in the configured stage-order table.
const DefaultStageOrder = 100
