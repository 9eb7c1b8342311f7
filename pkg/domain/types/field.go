package types

// FieldDataType represents the data type of a dataset column
type FieldDataType string

const (
	FieldDataTypeText       FieldDataType = "text"
	FieldDataTypeNumber     FieldDataType = "number"
	FieldDataTypeDate       FieldDataType = "date"
	FieldDataTypeOptionSet  FieldDataType = "optionset"
	FieldDataTypeStatus     FieldDataType = "status"
	FieldDataTypeLookup     FieldDataType = "lookup"
	FieldDataTypeLookupList FieldDataType = "lookuplist"
)

// AllFieldDataTypes returns all valid field data types
func AllFieldDataTypes() []FieldDataType {
	return []FieldDataType{
		FieldDataTypeText,
		FieldDataTypeNumber,
		FieldDataTypeDate,
		FieldDataTypeOptionSet,
		FieldDataTypeStatus,
		FieldDataTypeLookup,
		FieldDataTypeLookupList,
	}
}

// IsValid checks if the field data type is valid
func (t FieldDataType) IsValid() bool {
	switch t {
	case FieldDataTypeText,
		FieldDataTypeNumber,
		FieldDataTypeDate,
		FieldDataTypeOptionSet,
		FieldDataTypeStatus,
		FieldDataTypeLookup,
		FieldDataTypeLookupList:
		return true
	default:
		return false
	}
}

// IsCategorical reports whether columns of this type can back an
// option-set view.
func (t FieldDataType) IsCategorical() bool {
	return t == FieldDataTypeOptionSet || t == FieldDataTypeStatus
}

// String returns the string representation of the field data type
func (t FieldDataType) String() string {
	return string(t)
}
