package model

import "github.com/lane-lab/kanvas/pkg/domain/types"

// FieldData holds the raw and formatted values of one record field.
// Raw may carry a ReferenceValue / []ReferenceValue for lookup fields,
// a time.Time for date fields, or a plain scalar.
type FieldData struct {
	Raw       any
	Formatted string
}

// Record is a read-only projection source owned by the backing store.
type Record struct {
	ID     types.RecordID
	Entity types.EntityType
	Fields map[types.FieldName]FieldData
}

// Has reports whether the record exposes the named field
func (r *Record) Has(name types.FieldName) bool {
	_, ok := r.Fields[name]
	return ok
}

// Formatted returns the formatted value of the named field, or "" when
// the field is absent.
func (r *Record) Formatted(name types.FieldName) string {
	if fd, ok := r.Fields[name]; ok {
		return fd.Formatted
	}
	return ""
}

// Raw returns the raw value of the named field, or nil when absent
func (r *Record) Raw(name types.FieldName) any {
	if fd, ok := r.Fields[name]; ok {
		return fd.Raw
	}
	return nil
}

// DatasetColumn describes one displayed column of the record query
type DatasetColumn struct {
	Name        types.FieldName
	DisplayName string
	DataType    types.FieldDataType
	Order       int
}

// Dataset is the current record query result including its paging cursor
type Dataset struct {
	Entity      types.EntityType
	Columns     []DatasetColumn
	Records     []*Record
	HasNextPage bool
}

// RecordIDs returns the ids of all loaded records in dataset order
func (d *Dataset) RecordIDs() []types.RecordID {
	ids := make([]types.RecordID, 0, len(d.Records))
	for _, r := range d.Records {
		ids = append(ids, r.ID)
	}
	return ids
}

// CategoricalColumns returns the displayed columns that can back an
// option-set view, in display order.
func (d *Dataset) CategoricalColumns() []DatasetColumn {
	var cols []DatasetColumn
	for _, c := range d.Columns {
		if c.DataType.IsCategorical() {
			cols = append(cols, c)
		}
	}
	return cols
}

// RecordUpdate is a single-field persistence update issued by a card move
type RecordUpdate struct {
	EntitySet string // pluralized entity logical name
	RecordID  types.RecordID
	Field     types.FieldName
	Value     string // empty writes a null value
}
