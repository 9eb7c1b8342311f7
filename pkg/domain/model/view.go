package model

import (
	"sort"

	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// ColumnDefinition is one bucket of a view
type ColumnDefinition struct {
	ID    types.ColumnID
	Title string
	Order int
}

// ViewDefinition identifies a grouping dimension of the board
type ViewDefinition struct {
	Key        types.FieldName // field name, or process discriminator for BPF views
	Text       string
	Type       types.ViewType
	UniqueName types.FieldName // field written by card moves
	Columns    []ColumnDefinition

	// ProcessUniqueName is set for BPF views only
	ProcessUniqueName string
}

// ColumnByID returns the column definition with the given bucket key
func (v ViewDefinition) ColumnByID(id types.ColumnID) (ColumnDefinition, bool) {
	for _, c := range v.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// ColumnIDByTitle resolves a formatted field value to its bucket key.
// Returns the unallocated sentinel when no column title matches.
func (v ViewDefinition) ColumnIDByTitle(title string) types.ColumnID {
	for _, c := range v.Columns {
		if c.Title == title {
			return c.ID
		}
	}
	return types.UnallocatedColumnID
}

// FieldOption is one value of a categorical (option-set) field
type FieldOption struct {
	Field types.FieldName
	Key   string
	Label string
	Order int
}

// ProcessStage is one stage definition of a business process flow
type ProcessStage struct {
	ProcessID         string
	ProcessName       string
	ProcessUniqueName string
	StageID           string
	StageName         string
}

// StageAssignment reports the current stage of one record within the
// primary process.
type StageAssignment struct {
	RecordID  types.RecordID
	StageName string
}

// BuildStageColumns turns the stages of a single process into ordered
// column definitions. Stage order comes from the order table; stages not
// listed there default to DefaultStageOrder. Ties keep discovery order and
// repeated stage ids keep their first occurrence.
func BuildStageColumns(stages []ProcessStage, orderTable map[string]int) []ColumnDefinition {
	seen := make(map[string]bool, len(stages))
	cols := make([]ColumnDefinition, 0, len(stages))
	for _, st := range stages {
		if seen[st.StageID] {
			continue
		}
		seen[st.StageID] = true

		order := types.DefaultStageOrder
		if o, ok := orderTable[st.StageID]; ok {
			order = o
		}
		cols = append(cols, ColumnDefinition{
			ID:    types.ColumnID(st.StageName),
			Title: st.StageName,
			Order: order,
		})
	}

	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].Order < cols[j].Order
	})
	return cols
}

// GroupStagesByProcess buckets stage definitions by parent process,
// preserving discovery order of both processes and stages.
func GroupStagesByProcess(stages []ProcessStage) ([]string, map[string][]ProcessStage) {
	var order []string
	grouped := make(map[string][]ProcessStage)
	for _, st := range stages {
		if _, ok := grouped[st.ProcessID]; !ok {
			order = append(order, st.ProcessID)
		}
		grouped[st.ProcessID] = append(grouped[st.ProcessID], st)
	}
	return order, grouped
}
