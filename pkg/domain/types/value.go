package types

// ValueKind discriminates the shape of a card field value
type ValueKind string

const (
	ValueKindScalar        ValueKind = "scalar"
	ValueKindDate          ValueKind = "date"
	ValueKindReference     ValueKind = "reference"
	ValueKindReferenceList ValueKind = "reference-list"
)

// AllValueKinds returns all valid value kinds
func AllValueKinds() []ValueKind {
	return []ValueKind{
		ValueKindScalar,
		ValueKindDate,
		ValueKindReference,
		ValueKindReferenceList,
	}
}

// IsValid checks if the value kind is valid
func (k ValueKind) IsValid() bool {
	switch k {
	case ValueKindScalar, ValueKindDate, ValueKindReference, ValueKindReferenceList:
		return true
	default:
		return false
	}
}

// String returns the string representation of the value kind
func (k ValueKind) String() string {
	return string(k)
}
