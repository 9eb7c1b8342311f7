package usecase

import (
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/service/board"
)

// ViewSummary is one selectable catalog entry
type ViewSummary struct {
	Key    string          `json:"key"`
	Text   string          `json:"text"`
	Type   types.ViewType  `json:"type"`
	Active bool            `json:"active"`
}

// ColumnView is one rendered column with its derived aggregates
type ColumnView struct {
	ID        types.ColumnID        `json:"id"`
	Title     string                `json:"title"`
	Cards     []model.CardItem      `json:"cards"`
	Aggregate board.ColumnAggregate `json:"aggregate"`
}

// BoardView is the complete presentation snapshot of the session. It is
// a value copy; mutating it does not touch session state.
type BoardView struct {
	Views    []ViewSummary     `json:"views"`
	Columns  []ColumnView      `json:"columns"`
	Filters  model.FilterState `json:"filters"`
	Sort     model.SortConfig  `json:"sort"`
	Search   string            `json:"search"`
	Dropped  int               `json:"dropped"`
	Loading  bool              `json:"loading"`
	Notices  []string          `json:"notices"`
}

// View snapshots the current board state for the presentation layer.
// Reading leaves the session untouched; pending notices stay queued
// until DrainNotices collects them.
func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := BoardView{
		Views:   make([]ViewSummary, 0, len(b.views)),
		Columns: make([]ColumnView, 0, len(b.built.Columns)),
		Filters: b.filters.Clone(),
		Sort:    b.sort,
		Search:  b.search,
		Dropped: b.built.Dropped,
		Loading: b.loading,
		Notices: append([]string(nil), b.notices...),
	}

	for _, v := range b.views {
		out.Views = append(out.Views, ViewSummary{
			Key:    v.Key.String(),
			Text:   v.Text,
			Type:   v.Type,
			Active: b.hasActive && v.Key == b.active.Key,
		})
	}

	for _, col := range b.built.Columns {
		cards := make([]model.CardItem, len(col.Cards))
		copy(cards, col.Cards)
		out.Columns = append(out.Columns, ColumnView{
			ID:        col.Definition.ID,
			Title:     col.Definition.Title,
			Cards:     cards,
			Aggregate: col.Aggregate(b.cfg.SumField),
		})
	}

	return out
}

// DrainNotices returns the pending transient notifications and clears
// the queue; each notice is delivered exactly once.
func (b *Board) DrainNotices() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.notices
	b.notices = nil
	return out
}
