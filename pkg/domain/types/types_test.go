package types_test

import (
	"testing"

	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestViewType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		viewType types.ViewType
		want     bool
	}{
		{
			name:     "valid option set",
			viewType: types.ViewTypeOptionSet,
			want:     true,
		},
		{
			name:     "valid BPF",
			viewType: types.ViewTypeBPF,
			want:     true,
		},
		{
			name:     "invalid type",
			viewType: types.ViewType("Kanban"),
			want:     false,
		},
		{
			name:     "empty type",
			viewType: types.ViewType(""),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.viewType.IsValid()).True()
			} else {
				gt.B(t, tt.viewType.IsValid()).False()
			}
		})
	}
}

func TestParseViewType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ViewType
		wantErr bool
	}{
		{
			name:  "option set",
			input: "OptionSet",
			want:  types.ViewTypeOptionSet,
		},
		{
			name:  "BPF",
			input: "BPF",
			want:  types.ViewTypeBPF,
		},
		{
			name:    "lowercase is not accepted",
			input:   "optionset",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseViewType(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestEntityType_Pluralize(t *testing.T) {
	tests := []struct {
		name   string
		entity types.EntityType
		want   string
	}{
		{name: "plain", entity: "task", want: "tasks"},
		{name: "trailing y with consonant", entity: "opportunity", want: "opportunities"},
		{name: "trailing y with vowel", entity: "journey", want: "journeys"},
		{name: "trailing s", entity: "address", want: "addresses"},
		{name: "trailing x", entity: "fax", want: "faxes"},
		{name: "trailing ch", entity: "branch", want: "branches"},
		{name: "empty", entity: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, tt.entity.Pluralize()).Equal(tt.want)
		})
	}
}

func TestDragPhase_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from types.DragPhase
		to   types.DragPhase
		want bool
	}{
		{name: "idle to dragging", from: types.DragIdle, to: types.DragDragging, want: true},
		{name: "dragging to committing", from: types.DragDragging, to: types.DragCommitting, want: true},
		{name: "dragging to cancelled", from: types.DragDragging, to: types.DragCancelled, want: true},
		{name: "committing to idle", from: types.DragCommitting, to: types.DragIdle, want: true},
		{name: "cancelled to idle", from: types.DragCancelled, to: types.DragIdle, want: true},
		{name: "idle to committing is rejected", from: types.DragIdle, to: types.DragCommitting, want: false},
		{name: "committing to dragging is rejected", from: types.DragCommitting, to: types.DragDragging, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.from.CanTransition(tt.to)).True()
			} else {
				gt.B(t, tt.from.CanTransition(tt.to)).False()
			}
		})
	}
}

func TestColumnID_IsUnallocated(t *testing.T) {
	gt.B(t, types.UnallocatedColumnID.IsUnallocated()).True()
	gt.B(t, types.ColumnID("todo").IsUnallocated()).False()
}

func TestAllValueKinds(t *testing.T) {
	kinds := types.AllValueKinds()
	gt.A(t, kinds).Length(4)
	for _, kind := range kinds {
		gt.B(t, kind.IsValid()).True()
	}
}
