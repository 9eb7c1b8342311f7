package board

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// ColumnItem is one rendered column holding its assigned cards
type ColumnItem struct {
	Definition model.ColumnDefinition
	Cards      []model.CardItem
}

// Board is the bucketed result fed to the presentation layer. Dropped
// counts cards whose resolved key matched no column; they appear in no
// column but the discrepancy stays observable.
type Board struct {
	Columns []ColumnItem
	Dropped int
}

// UnallocatedColumnTitle labels the synthetic fallback bucket
const UnallocatedColumnTitle = "Unallocated"

// BuildColumns groups cards into the view's configured columns. For
// non-BPF views a synthetic unallocated column (order 0) is prepended
// when any present card lacked the grouping field or had an empty
// formatted value for it.
func BuildColumns(cards []model.CardItem, blankGroup map[types.RecordID]bool, view model.ViewDefinition) Board {
	defs := make([]model.ColumnDefinition, 0, len(view.Columns)+1)

	if view.Type != types.ViewTypeBPF && anyBlank(cards, blankGroup) {
		defs = append(defs, model.ColumnDefinition{
			ID:    types.UnallocatedColumnID,
			Title: UnallocatedColumnTitle,
			Order: 0,
		})
	}
	defs = append(defs, view.Columns...)

	index := make(map[types.ColumnID]int, len(defs))
	columns := make([]ColumnItem, len(defs))
	for i, def := range defs {
		columns[i] = ColumnItem{Definition: def}
		index[def.ID] = i
	}

	var dropped int
	for _, card := range cards {
		i, ok := index[card.Column]
		if !ok {
			dropped++
			continue
		}
		columns[i].Cards = append(columns[i].Cards, card)
	}

	return Board{Columns: columns, Dropped: dropped}
}

func anyBlank(cards []model.CardItem, blankGroup map[types.RecordID]bool) bool {
	for _, card := range cards {
		if blankGroup[card.ID] {
			return true
		}
	}
	return false
}

// CardCount returns the total number of cards on the board
func (b Board) CardCount() int {
	var n int
	for _, col := range b.Columns {
		n += len(col.Cards)
	}
	return n
}

// ColumnByID returns the rendered column with the given id
func (b Board) ColumnByID(id types.ColumnID) (ColumnItem, bool) {
	for _, col := range b.Columns {
		if col.Definition.ID == id {
			return col, true
		}
	}
	return ColumnItem{}, false
}

// ColumnAggregate summarizes one column's card list. It is derived on
// demand, never stored on the column.
type ColumnAggregate struct {
	Count    int
	Sum      float64
	HasSum   bool
	Currency string
}

// Aggregate computes the count and, when sumField is set, a numeric sum
// over that field. The currency symbol is taken from the first formatted
// numeric value encountered.
func (c ColumnItem) Aggregate(sumField types.FieldName) ColumnAggregate {
	agg := ColumnAggregate{Count: len(c.Cards)}
	if sumField == "" {
		return agg
	}

	for _, card := range c.Cards {
		text, ok := card.FieldText(sumField)
		if !ok {
			continue
		}
		n, currency, ok := ParseAmount(text)
		if !ok {
			continue
		}
		agg.Sum += n
		agg.HasSum = true
		if agg.Currency == "" && currency != "" {
			agg.Currency = currency
		}
	}
	return agg
}

// ParseAmount parses a formatted numeric value such as "$1,200.50",
// returning the number and any detected currency symbol prefix.
func ParseAmount(text string) (float64, string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, "", false
	}

	start := strings.IndexFunc(trimmed, func(r rune) bool {
		return unicode.IsDigit(r) || r == '-' || r == '+' || r == '.'
	})
	if start < 0 {
		return 0, "", false
	}

	currency := strings.TrimSpace(trimmed[:start])
	rest := strings.ReplaceAll(trimmed[start:], ",", "")
	n, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, "", false
	}
	return n, currency, true
}
