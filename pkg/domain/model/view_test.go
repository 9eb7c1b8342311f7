package model_test

import (
	"testing"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func stage(process, stageID, stageName string) model.ProcessStage {
	return model.ProcessStage{
		ProcessID:         process,
		ProcessName:       process,
		ProcessUniqueName: process,
		StageID:           stageID,
		StageName:         stageName,
	}
}

func TestBuildStageColumns(t *testing.T) {
	t.Run("ordered by stage order table", func(t *testing.T) {
		stages := []model.ProcessStage{
			stage("p1", "s1", "Qualify"),
			stage("p1", "s2", "Develop"),
			stage("p1", "s3", "Close"),
		}
		orderTable := map[string]int{
			"s1": 30,
			"s2": 10,
			"s3": 20,
		}

		cols := model.BuildStageColumns(stages, orderTable)
		gt.A(t, cols).Length(3)
		gt.V(t, cols[0].Title).Equal("Develop")
		gt.V(t, cols[1].Title).Equal("Close")
		gt.V(t, cols[2].Title).Equal("Qualify")
	})

	t.Run("unmatched stages default to order 100", func(t *testing.T) {
		stages := []model.ProcessStage{
			stage("p1", "s1", "Qualify"),
			stage("p1", "s2", "Develop"),
		}
		orderTable := map[string]int{"s2": 5}

		cols := model.BuildStageColumns(stages, orderTable)
		gt.A(t, cols).Length(2)
		gt.V(t, cols[0].Title).Equal("Develop")
		gt.V(t, cols[1].Title).Equal("Qualify")
		gt.V(t, cols[1].Order).Equal(types.DefaultStageOrder)
	})

	t.Run("ties keep discovery order", func(t *testing.T) {
		stages := []model.ProcessStage{
			stage("p1", "s1", "First"),
			stage("p1", "s2", "Second"),
			stage("p1", "s3", "Third"),
		}

		cols := model.BuildStageColumns(stages, nil)
		gt.A(t, cols).Length(3)
		gt.V(t, cols[0].Title).Equal("First")
		gt.V(t, cols[1].Title).Equal("Second")
		gt.V(t, cols[2].Title).Equal("Third")
	})

	t.Run("duplicate stage ids keep first occurrence", func(t *testing.T) {
		stages := []model.ProcessStage{
			stage("p1", "s1", "Qualify"),
			stage("p1", "s1", "Qualify Again"),
			stage("p1", "s2", "Develop"),
		}

		cols := model.BuildStageColumns(stages, nil)
		gt.A(t, cols).Length(2)
		gt.V(t, cols[0].Title).Equal("Qualify")
		gt.V(t, cols[1].Title).Equal("Develop")
	})
}

func TestGroupStagesByProcess(t *testing.T) {
	stages := []model.ProcessStage{
		stage("p1", "s1", "A"),
		stage("p2", "s2", "B"),
		stage("p1", "s3", "C"),
	}

	order, grouped := model.GroupStagesByProcess(stages)
	gt.A(t, order).Length(2)
	gt.V(t, order[0]).Equal("p1")
	gt.V(t, order[1]).Equal("p2")
	gt.A(t, grouped["p1"]).Length(2)
	gt.A(t, grouped["p2"]).Length(1)
}

func TestViewDefinition_ColumnIDByTitle(t *testing.T) {
	view := model.ViewDefinition{
		Key:  "status",
		Type: types.ViewTypeOptionSet,
		Columns: []model.ColumnDefinition{
			{ID: "1", Title: "Todo", Order: 1},
			{ID: "2", Title: "Done", Order: 2},
		},
	}

	gt.V(t, view.ColumnIDByTitle("Done")).Equal(types.ColumnID("2"))
	gt.V(t, view.ColumnIDByTitle("Nope")).Equal(types.UnallocatedColumnID)
}
