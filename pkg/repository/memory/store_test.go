package memory_test

import (
	"context"
	"testing"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func records(n int) []*model.Record {
	out := make([]*model.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Record{
			ID: types.RecordID(rune('a' + i)),
			Fields: map[types.FieldName]model.FieldData{
				"status": {Raw: "1", Formatted: "Todo"},
			},
		})
	}
	return out
}

func TestStore_Paging(t *testing.T) {
	ctx := context.Background()
	store := memory.New(
		memory.WithDataset("task", nil, records(5)),
		memory.WithPageSize(2),
	)

	ds := gt.R1(store.Snapshot(ctx)).NoError(t)
	gt.A(t, ds.Records).Length(2)
	gt.B(t, ds.HasNextPage).True()

	gt.NoError(t, store.LoadNextPage(ctx))
	ds = gt.R1(store.Snapshot(ctx)).NoError(t)
	gt.A(t, ds.Records).Length(4)
	gt.B(t, ds.HasNextPage).True()

	gt.NoError(t, store.LoadNextPage(ctx))
	ds = gt.R1(store.Snapshot(ctx)).NoError(t)
	gt.A(t, ds.Records).Length(5)
	gt.B(t, ds.HasNextPage).False()

	gt.Error(t, store.LoadNextPage(ctx))
}

func TestStore_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.WithDataset("task", nil, records(1)))

	ds := gt.R1(store.Snapshot(ctx)).NoError(t)
	ds.Records[0].Fields["status"] = model.FieldData{Raw: "2", Formatted: "Done"}

	fresh := gt.R1(store.Snapshot(ctx)).NoError(t)
	gt.V(t, fresh.Records[0].Formatted("status")).Equal("Todo")
}

func TestStore_UpdateRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.New(
		memory.WithDataset("task", nil, records(2)),
		memory.WithOptions([]model.FieldOption{
			{Field: "status", Key: "1", Label: "Todo", Order: 1},
			{Field: "status", Key: "2", Label: "Done", Order: 2},
		}),
	)

	t.Run("option key writes its label as formatted value", func(t *testing.T) {
		gt.NoError(t, store.UpdateRecord(ctx, model.RecordUpdate{
			EntitySet: "tasks",
			RecordID:  "a",
			Field:     "status",
			Value:     "2",
		}))

		ds := gt.R1(store.Snapshot(ctx)).NoError(t)
		gt.V(t, ds.Records[0].Formatted("status")).Equal("Done")
		gt.A(t, store.Updates()).Length(1)
	})

	t.Run("empty value clears the field", func(t *testing.T) {
		gt.NoError(t, store.UpdateRecord(ctx, model.RecordUpdate{
			EntitySet: "tasks",
			RecordID:  "a",
			Field:     "status",
			Value:     "",
		}))

		ds := gt.R1(store.Snapshot(ctx)).NoError(t)
		gt.V(t, ds.Records[0].Formatted("status")).Equal("")
	})

	t.Run("unknown record fails", func(t *testing.T) {
		err := store.UpdateRecord(ctx, model.RecordUpdate{
			EntitySet: "tasks",
			RecordID:  "zz",
			Field:     "status",
			Value:     "1",
		})
		gt.Error(t, err)
	})
}

func TestStore_CurrentStages(t *testing.T) {
	ctx := context.Background()
	store := memory.New(
		memory.WithDataset("task", nil, records(2)),
		memory.WithCurrentStages(map[string]map[types.RecordID]string{
			"salesprocess": {"a": "Qualify"},
		}),
	)

	assignments := gt.R1(store.FetchCurrentStage(ctx, "task", "salesprocess", []types.RecordID{"a", "b"})).NoError(t)
	gt.A(t, assignments).Length(1)
	gt.V(t, assignments[0].StageName).Equal("Qualify")

	// a stage write against the process field moves the record
	gt.NoError(t, store.UpdateRecord(ctx, model.RecordUpdate{
		EntitySet: "tasks",
		RecordID:  "b",
		Field:     "salesprocess",
		Value:     "Close",
	}))
	assignments = gt.R1(store.FetchCurrentStage(ctx, "task", "salesprocess", []types.RecordID{"b"})).NoError(t)
	gt.A(t, assignments).Length(1)
	gt.V(t, assignments[0].StageName).Equal("Close")
}
