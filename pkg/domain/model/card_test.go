package model_test

import (
	"testing"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestCardItem_Matches(t *testing.T) {
	card := model.CardItem{
		ID:     "r1",
		Column: "todo",
		Title:  "Implement user authentication",
		Fields: map[types.FieldName]model.FieldValue{
			"owner": model.ReferenceFieldValue("Owner", model.ReferenceValue{
				ID: "u1", Name: "Alice Smith", Entity: "systemuser",
			}),
			"due": model.DateValue("Due", "2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	tests := []struct {
		name string
		term string
		want bool
	}{
		{name: "substring of title case-insensitive", term: "auth", want: true},
		{name: "uppercase term", term: "AUTH", want: true},
		{name: "reference display name", term: "alice", want: true},
		{name: "formatted date text", term: "2024-06", want: true},
		{name: "no match", term: "billing", want: false},
		{name: "empty term matches", term: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, card.Matches(tt.term)).True()
			} else {
				gt.B(t, card.Matches(tt.term)).False()
			}
		})
	}
}

func TestFieldValue_SearchText(t *testing.T) {
	t.Run("reference list joins display names", func(t *testing.T) {
		v := model.ReferenceListValue("Members", []model.ReferenceValue{
			{ID: "u1", Name: "Alice", Entity: "systemuser"},
			{ID: "u2", Name: "Bob", Entity: "systemuser"},
		})
		gt.V(t, v.SearchText()).Equal("Alice Bob")
	})

	t.Run("scalar uses formatted text", func(t *testing.T) {
		v := model.ScalarValue("Revenue", "$1,200.00")
		gt.V(t, v.SearchText()).Equal("$1,200.00")
	})

	t.Run("nil reference is empty", func(t *testing.T) {
		v := model.FieldValue{Kind: types.ValueKindReference}
		gt.V(t, v.SearchText()).Equal("")
	})
}

func TestCardItem_FieldText(t *testing.T) {
	card := model.CardItem{
		ID:    "r1",
		Title: "Renew contract",
		Fields: map[types.FieldName]model.FieldValue{
			"amount": model.ScalarValue("Amount", "250"),
		},
	}

	text, ok := card.FieldText(model.TitleField)
	gt.B(t, ok).True()
	gt.V(t, text).Equal("Renew contract")

	text, ok = card.FieldText("amount")
	gt.B(t, ok).True()
	gt.V(t, text).Equal("250")

	_, ok = card.FieldText("missing")
	gt.B(t, ok).False()
}

func TestCardItem_FieldKey(t *testing.T) {
	status := model.ScalarValue("Status", "In Progress")
	status.Key = "doing"
	card := model.CardItem{
		ID:    "r1",
		Title: "Renew contract",
		Fields: map[types.FieldName]model.FieldValue{
			"status": status,
			"amount": model.ScalarValue("Amount", "250"),
		},
	}

	key, ok := card.FieldKey("status")
	gt.B(t, ok).True()
	gt.V(t, key).Equal("doing")

	// values without a stored key fall back to their text
	key, ok = card.FieldKey("amount")
	gt.B(t, ok).True()
	gt.V(t, key).Equal("250")

	key, ok = card.FieldKey(model.TitleField)
	gt.B(t, ok).True()
	gt.V(t, key).Equal("Renew contract")

	_, ok = card.FieldKey("missing")
	gt.B(t, ok).False()
}
