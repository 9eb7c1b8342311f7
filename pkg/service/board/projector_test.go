package board_test

import (
	"testing"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/model/config"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/service/board"
	"github.com/m-mizutani/gt"
)

func statusView() model.ViewDefinition {
	return model.ViewDefinition{
		Key:        "status",
		Text:       "Status",
		Type:       types.ViewTypeOptionSet,
		UniqueName: "status",
		Columns: []model.ColumnDefinition{
			{ID: "1", Title: "Todo", Order: 1},
			{ID: "2", Title: "Done", Order: 2},
		},
	}
}

func testDataset() *model.Dataset {
	due := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	return &model.Dataset{
		Entity: "task",
		Columns: []model.DatasetColumn{
			{Name: "name", DisplayName: "Name", DataType: types.FieldDataTypeText, Order: 0},
			{Name: "status", DisplayName: "Status", DataType: types.FieldDataTypeOptionSet, Order: 1},
			{Name: "owner", DisplayName: "Owner", DataType: types.FieldDataTypeLookup, Order: 2},
			{Name: "due", DisplayName: "Due Date", DataType: types.FieldDataTypeDate, Order: 3},
		},
		Records: []*model.Record{
			{
				ID:     "r1",
				Entity: "task",
				Fields: map[types.FieldName]model.FieldData{
					"name":   {Raw: "Write report", Formatted: "Write report"},
					"status": {Raw: 1, Formatted: "Todo"},
					"owner": {Raw: model.ReferenceValue{
						ID: "u1", Name: "Alice", Entity: "systemuser",
					}, Formatted: "Alice"},
					"due": {Raw: due, Formatted: "2024-05-20"},
				},
			},
			{
				ID:     "r2",
				Entity: "task",
				Fields: map[types.FieldName]model.FieldData{
					"name":   {Raw: "Review PR", Formatted: "Review PR"},
					"status": {Raw: nil, Formatted: ""},
				},
			},
		},
	}
}

func TestProjector_Project(t *testing.T) {
	projector := board.NewProjector(nil)
	ds := testDataset()

	proj := projector.Project(ds, statusView(), nil)
	gt.A(t, proj.Cards).Length(2)

	t.Run("first dataset column maps to title", func(t *testing.T) {
		gt.V(t, proj.Cards[0].Title).Equal("Write report")
		_, hasName := proj.Cards[0].Fields["name"]
		gt.B(t, hasName).False()
	})

	t.Run("column key resolved from formatted value", func(t *testing.T) {
		gt.V(t, proj.Cards[0].Column).Equal(types.ColumnID("1"))
	})

	t.Run("blank group value resolves to unallocated", func(t *testing.T) {
		gt.V(t, proj.Cards[1].Column).Equal(types.UnallocatedColumnID)
		gt.B(t, proj.BlankGroup["r2"]).True()
		gt.B(t, proj.BlankGroup["r1"]).False()
	})

	t.Run("lookup fields carried as structured references", func(t *testing.T) {
		owner := proj.Cards[0].Fields["owner"]
		gt.V(t, owner.Kind).Equal(types.ValueKindReference)
		gt.V(t, owner.Reference.Name).Equal("Alice")
		gt.V(t, owner.Reference.Entity).Equal(types.EntityType("systemuser"))
	})

	t.Run("date fields keep their time value", func(t *testing.T) {
		due := proj.Cards[0].Fields["due"]
		gt.V(t, due.Kind).Equal(types.ValueKindDate)
		gt.V(t, due.Date.Year()).Equal(2024)
		gt.V(t, due.Text).Equal("2024-05-20")
	})
}

func TestProjector_Deterministic(t *testing.T) {
	projector := board.NewProjector(nil)
	ds := testDataset()
	view := statusView()

	first := projector.Project(ds, view, nil)
	second := projector.Project(ds, view, nil)

	gt.V(t, first.Cards).Equal(second.Cards)
	gt.V(t, first.BlankGroup).Equal(second.BlankGroup)
}

func TestProjector_BPFView(t *testing.T) {
	projector := board.NewProjector(nil)
	ds := testDataset()
	view := model.ViewDefinition{
		Key:               "bpf:salesprocess",
		Text:              "Sales Process",
		Type:              types.ViewTypeBPF,
		UniqueName:        "salesprocess",
		ProcessUniqueName: "salesprocess",
		Columns: []model.ColumnDefinition{
			{ID: "Qualify", Title: "Qualify", Order: 10},
			{ID: "Close", Title: "Close", Order: 20},
		},
	}

	stages := map[types.RecordID]string{"r1": "Qualify"}
	proj := projector.Project(ds, view, stages)

	gt.V(t, proj.Cards[0].Column).Equal(types.ColumnID("Qualify"))
	// unresolved records get an empty stage key
	gt.V(t, proj.Cards[1].Column).Equal(types.ColumnID(""))
	gt.V(t, len(proj.BlankGroup)).Equal(0)
}

func TestProjector_FieldRules(t *testing.T) {
	cfg := &config.BoardConfig{
		FieldRules: map[types.FieldName]config.FieldRule{
			"owner": {Hidden: true},
			"due":   {DisplayName: "Deadline"},
		},
	}
	projector := board.NewProjector(cfg)

	proj := projector.Project(testDataset(), statusView(), nil)

	_, hasOwner := proj.Cards[0].Fields["owner"]
	gt.B(t, hasOwner).False()
	gt.V(t, proj.Cards[0].Fields["due"].Label).Equal("Deadline")
}
